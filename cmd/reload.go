package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/gesturesd/internal/ipc"
	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask a running daemon to re-read its configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := ipc.SendReload(ipc.SocketPath()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		fmt.Println("configuration reloaded")
	},
}
