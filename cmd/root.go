package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/gesturesd/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Version is set during build.
	Version = "0.1.0-dev"

	verboseCount int
	debugFlag    bool
	forceX11     bool
	forceWayland bool

	rootCmd = &cobra.Command{
		Use:   "gesturesd",
		Short: "Touchpad gesture daemon",
		Long: `gesturesd reads multi-finger touchpad gestures from libinput and turns
them into either a synthesized three-finger drag or user-defined shell
commands bound by gesture type, direction, and finger count.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				logger.SetVerbosity(2)
			} else {
				logger.SetVerbosity(verboseCount)
			}
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "increase logging verbosity (-v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "enable debug logging with caller info")
	rootCmd.PersistentFlags().BoolVar(&forceX11, "x11", false, "force the native X11 pointer backend")
	rootCmd.PersistentFlags().BoolVar(&forceWayland, "wayland", false, "force the external Wayland (ydotool) pointer backend")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(generateConfigCmd)
	rootCmd.AddCommand(installServiceCmd)
}

func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
