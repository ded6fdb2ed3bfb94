// Package config handles configuration management using Viper. The exact
// on-disk TOML table shape is this module's own business; the rest of the
// daemon only ever sees the parsed []gesture.Binding slice plus the few
// daemon-wide settings below.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/gesturesd/internal/gesture"
	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Daemon   DaemonConfig    `mapstructure:"daemon" toml:"daemon"`
	IPC      IPCConfig       `mapstructure:"ipc" toml:"ipc"`
	Bindings []BindingConfig `mapstructure:"bindings" toml:"bindings"`
}

// DaemonConfig contains process-wide tuning knobs.
type DaemonConfig struct {
	WorkerCount    int    `mapstructure:"worker_count" toml:"worker_count"`
	TargetFPS      int    `mapstructure:"target_fps" toml:"target_fps"`
	DeviceSelector string `mapstructure:"device_selector" toml:"device_selector"`
}

// IPCConfig contains the reload-socket settings.
type IPCConfig struct {
	SocketPath string `mapstructure:"socket_path" toml:"socket_path"`
}

// BindingConfig is the on-disk shape of one gesture.Binding.
type BindingConfig struct {
	Kind           string `mapstructure:"kind" toml:"kind"`
	Fingers        int    `mapstructure:"fingers" toml:"fingers"`
	Direction      string `mapstructure:"direction" toml:"direction,omitempty"`
	PinchDirection string `mapstructure:"pinch_direction" toml:"pinch_direction,omitempty"`
	MouseUpDelayMs *int   `mapstructure:"mouse_up_delay_ms" toml:"mouse_up_delay_ms,omitempty"`
	Acceleration   *int   `mapstructure:"acceleration" toml:"acceleration,omitempty"`
	Start          string `mapstructure:"start" toml:"start,omitempty"`
	Update         string `mapstructure:"update" toml:"update,omitempty"`
	End            string `mapstructure:"end" toml:"end,omitempty"`
	Action         string `mapstructure:"action" toml:"action,omitempty"`
}

// DefaultConfig provides sensible defaults, including the direct-drag
// three-finger binding that emulates macOS drag.
var DefaultConfig = Config{
	Daemon: DaemonConfig{
		WorkerCount:    4,
		TargetFPS:      60,
		DeviceSelector: "auto",
	},
	IPC: IPCConfig{
		SocketPath: "",
	},
	Bindings: []BindingConfig{
		{
			Kind: "swipe", Fingers: 3, Direction: "any",
			MouseUpDelayMs: intPtr(300), Acceleration: intPtr(10),
		},
		{
			Kind: "swipe", Fingers: 4, Direction: "w",
			End: "echo 4-finger-left",
		},
		{
			Kind: "swipe", Fingers: 4, Direction: "e",
			End: "echo 4-finger-right",
		},
		{
			Kind: "pinch", Fingers: 2, PinchDirection: "in",
			End: "echo zoom-out",
		},
		{
			Kind: "pinch", Fingers: 2, PinchDirection: "out",
			End: "echo zoom-in",
		},
	},
}

func intPtr(v int) *int { return &v }

// cfgMu guards cfg: the IPC reload handler is the sole writer, swapping the
// whole value under the write lock; everything else (the dispatcher, via
// the index cache's Source) only ever takes brief read locks to copy out a
// snapshot.
var (
	cfgMu sync.RWMutex
	cfg   *Config
)

// Init initializes the configuration system: sets defaults and the search
// path, then reads whatever config file is found (or none).
func Init() error {
	viper.SetConfigName("gesturesd")
	viper.SetConfigType("toml")

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "gesturesd"))
	} else if home := os.Getenv("HOME"); home != "" {
		viper.AddConfigPath(filepath.Join(home, ".config", "gesturesd"))
	}
	viper.AddConfigPath("/etc/gesturesd")
	viper.AddConfigPath(".")

	viper.SetDefault("daemon", DefaultConfig.Daemon)
	viper.SetDefault("ipc", DefaultConfig.IPC)
	viper.SetDefault("bindings", DefaultConfig.Bindings)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	cfgMu.Lock()
	cfg = c
	cfgMu.Unlock()
	return nil
}

// Get returns the current configuration, defaults if Init was never called.
func Get() *Config {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	if cfg == nil {
		return &DefaultConfig
	}
	return cfg
}

// SetLive atomically swaps the live configuration returned by Get. This is
// the only mutation path outside of Init, used by the IPC reload handler
// after Load has successfully parsed a new configuration.
func SetLive(c *Config) {
	cfgMu.Lock()
	cfg = c
	cfgMu.Unlock()
}

// Load re-reads the configuration file from disk without touching the live
// package-level Get() result, for use by the IPC reload handler: on success
// the caller swaps its own copy in under its writer lock; on failure the
// caller's live config is left untouched.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("gesturesd")
	v.SetConfigType("toml")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "gesturesd"))
	} else if home := os.Getenv("HOME"); home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "gesturesd"))
	}
	v.AddConfigPath("/etc/gesturesd")
	v.AddConfigPath(".")

	v.SetDefault("daemon", DefaultConfig.Daemon)
	v.SetDefault("ipc", DefaultConfig.IPC)
	v.SetDefault("bindings", DefaultConfig.Bindings)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg (or DefaultConfig, if cfg is nil) to GetConfigPath.
func Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if cfg == nil {
		viper.Set("daemon", DefaultConfig.Daemon)
		viper.Set("ipc", DefaultConfig.IPC)
		viper.Set("bindings", DefaultConfig.Bindings)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the config file, following the same
// precedence Init()/Load() search.
func GetConfigPath() string {
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gesturesd", "gesturesd.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "gesturesd", "gesturesd.toml")
	}
	return "/etc/gesturesd/gesturesd.toml"
}

// ToBindings converts the on-disk binding records into the core's data
// model, skipping records with an unparsable kind/direction rather than
// failing the whole load (such records are dropped without being reported,
// and the daemon runs with the rest).
func ToBindings(raw []BindingConfig) []gesture.Binding {
	out := make([]gesture.Binding, 0, len(raw))
	for _, r := range raw {
		b := gesture.Binding{
			Fingers:        r.Fingers,
			MouseUpDelayMs: r.MouseUpDelayMs,
			Acceleration:   r.Acceleration,
			StartCmd:       r.Start,
			UpdateCmd:      r.Update,
			EndCmd:         r.End,
			Action:         r.Action,
		}
		switch r.Kind {
		case "swipe":
			b.Kind = gesture.Swipe
			dir, ok := gesture.ParseDirection(r.Direction)
			if !ok {
				continue
			}
			b.Direction = dir
		case "pinch":
			b.Kind = gesture.Pinch
			dir, ok := gesture.ParsePinchDirection(r.PinchDirection)
			if !ok {
				continue
			}
			b.PinchDirection = dir
		case "hold":
			b.Kind = gesture.Hold
		default:
			continue
		}
		out = append(out, b)
	}
	return out
}
