package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/bnema/gesturesd/internal/logger"
	"github.com/spf13/cobra"
)

const serviceUnitTemplate = `[Unit]
Description=Touchpad gesture daemon
After=graphical-session.target

[Service]
ExecStart={{.Exec}} start
Restart=on-failure
RestartSec=2

[Install]
WantedBy=graphical-session.target
`

var printService bool

var installServiceCmd = &cobra.Command{
	Use:   "install-service",
	Short: "Install the systemd --user unit for gesturesd",
	RunE: func(cmd *cobra.Command, args []string) error {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolving executable path: %w", err)
		}

		tmpl := template.Must(template.New("unit").Parse(serviceUnitTemplate))

		if printService {
			return tmpl.Execute(os.Stdout, map[string]string{"Exec": exe})
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		unitDir := filepath.Join(home, ".config", "systemd", "user")
		if err := os.MkdirAll(unitDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", unitDir, err)
		}

		unitPath := filepath.Join(unitDir, "gesturesd.service")
		f, err := os.Create(unitPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", unitPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, map[string]string{"Exec": exe}); err != nil {
			return fmt.Errorf("writing unit file: %w", err)
		}

		logger.Infof("systemd user unit written to %s", unitPath)
		fmt.Println("Enable it with:")
		fmt.Println("  systemctl --user daemon-reload")
		fmt.Println("  systemctl --user enable --now gesturesd")

		if reload := exec.Command("systemctl", "--user", "daemon-reload"); reload.Run() != nil {
			logger.Warn("systemctl --user daemon-reload failed; run it manually")
		}

		return nil
	},
}

func init() {
	installServiceCmd.Flags().BoolVar(&printService, "print", false, "print the unit file to stdout instead of writing it")
}
