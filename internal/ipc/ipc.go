// Package ipc implements a local Unix-domain socket accepting
// newline-terminated ASCII commands, used to hot-reload the live
// configuration without restarting the daemon.
package ipc

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/gesturesd/internal/logger"
)

// SocketName is the file name of the IPC socket within its runtime
// directory.
const SocketName = "gestures.sock"

// acceptPollInterval bounds how long Accept blocks before the listener
// re-checks the shutdown flag.
const acceptPollInterval = 200 * time.Millisecond

// SocketPath resolves the well-known IPC socket path: $XDG_RUNTIME_DIR if
// set, otherwise the system temp directory.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, SocketName)
	}
	return filepath.Join(os.TempDir(), SocketName)
}

// ReloadFunc re-reads and parses configuration, atomically swapping it in
// on success. It must return an error without mutating live state on parse
// failure.
type ReloadFunc func() error

// Listener accepts IPC connections and dispatches recognized commands.
type Listener struct {
	path   string
	ln     net.Listener
	reload ReloadFunc

	wg        sync.WaitGroup
	closeOnce sync.Once
	done      chan struct{}
}

// Listen binds the Unix socket at path (removing any stale socket file
// left behind by a prior crashed instance) and restricts it to the owning
// user.
func Listen(path string, reload ReloadFunc) (*Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating socket directory: %w", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("removing stale socket: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("binding IPC socket: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("restricting socket permissions: %w", err)
	}

	return &Listener{
		path:   path,
		ln:     ln,
		reload: reload,
		done:   make(chan struct{}),
	}, nil
}

// Serve runs the accept loop until shuttingDown reports true or the
// listener is closed. It returns once the loop has exited; callers
// typically run it in its own goroutine.
func (l *Listener) Serve(shuttingDown func() bool) {
	unixLn, hasDeadline := l.ln.(*net.UnixListener)

	for {
		select {
		case <-l.done:
			return
		default:
		}
		if shuttingDown() {
			return
		}

		if hasDeadline {
			unixLn.SetDeadline(time.Now().Add(acceptPollInterval))
		}
		conn, err := l.ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-l.done:
				return
			default:
			}
			if shuttingDown() {
				return
			}
			logger.Warnf("ipc: accept error: %v", err)
			continue
		}

		l.wg.Add(1)
		go l.handle(conn)
	}
}

func (l *Listener) handle(conn net.Conn) {
	defer l.wg.Done()
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return
	}
	cmd := strings.TrimSpace(scanner.Text())

	reply := l.dispatch(cmd)
	fmt.Fprintln(conn, reply)
}

func (l *Listener) dispatch(cmd string) string {
	switch cmd {
	case "reload":
		if err := l.reload(); err != nil {
			logger.Warnf("ipc: reload failed: %v", err)
			return "error: " + err.Error()
		}
		logger.Info("ipc: configuration reloaded")
		return "ok"
	default:
		return fmt.Sprintf("error: unknown command %q", cmd)
	}
}

// Close stops the accept loop, waits for in-flight connections to finish,
// and removes the socket file.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.ln.Close()
		l.wg.Wait()
		os.RemoveAll(l.path)
	})
	return err
}
