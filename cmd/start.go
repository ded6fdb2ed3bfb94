package cmd

import (
	"os"

	"github.com/bnema/gesturesd/internal/config"
	"github.com/bnema/gesturesd/internal/dispatch"
	"github.com/bnema/gesturesd/internal/drag"
	"github.com/bnema/gesturesd/internal/gesture"
	"github.com/bnema/gesturesd/internal/index"
	"github.com/bnema/gesturesd/internal/input"
	"github.com/bnema/gesturesd/internal/ipc"
	"github.com/bnema/gesturesd/internal/lifecycle"
	"github.com/bnema/gesturesd/internal/logger"
	"github.com/bnema/gesturesd/internal/pointer"
	"github.com/bnema/gesturesd/internal/workerpool"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the gesture daemon in the foreground",
	RunE:  runStart,
}

// wantsWayland picks the pointer backend: the Wayland display variable
// takes precedence, then the session-type variable, defaulting to X11 when
// neither is present. The --x11/--wayland flags override detection
// entirely.
func wantsWayland() bool {
	if forceX11 {
		return false
	}
	if forceWayland {
		return true
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	return os.Getenv("XDG_SESSION_TYPE") == "wayland"
}

func runStart(cmd *cobra.Command, args []string) error {
	if err := config.Init(); err != nil {
		exitError("loading configuration: %v", err)
	}
	cfg := config.Get()

	pool := workerpool.New(cfg.Daemon.WorkerCount)
	defer pool.Close()

	var backend pointer.Backend
	if wantsWayland() {
		logger.Info("selected pointer backend", "backend", "wayland")
		backend = pointer.NewExternal(pool)
	} else {
		logger.Info("selected pointer backend", "backend", "x11")
		backend = pointer.NewNative()
	}
	defer backend.Close()

	dragEngine := drag.New(backend, cfg.Daemon.TargetFPS)
	defer dragEngine.Close()

	idx := index.New(func() []gesture.Binding {
		return config.ToBindings(config.Get().Bindings)
	})

	dispatcher := dispatch.New(idx, dragEngine, pool)

	source, err := input.Open(cfg.Daemon.DeviceSelector)
	if err != nil {
		exitError("opening touchpad input source: %v", err)
	}
	defer source.Close()

	reload := func() error {
		fresh, err := config.Load()
		if err != nil {
			return err
		}
		config.SetLive(fresh)
		logger.Info("configuration reloaded")
		return nil
	}

	listener, err := ipc.Listen(ipc.SocketPath(), reload)
	if err != nil {
		exitError("starting IPC listener: %v", err)
	}
	defer listener.Close()

	lc := lifecycle.New()
	go listener.Serve(lc.ShuttingDown)

	logger.Info("gesturesd started", "socket", ipc.SocketPath())

	go func() {
		lc.Wait()
		source.Close()
	}()

	for ev := range source.Events() {
		dispatcher.Dispatch(ev)
	}
	return nil
}
