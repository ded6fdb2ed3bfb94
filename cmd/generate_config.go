package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/gesturesd/internal/config"
	"github.com/bnema/gesturesd/internal/logger"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	printConfig bool
	forceConfig bool
)

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if printConfig {
			enc := toml.NewEncoder(os.Stdout)
			return enc.Encode(&config.DefaultConfig)
		}

		path := config.GetConfigPath()
		if _, err := os.Stat(path); err == nil && !forceConfig {
			logger.Infof("configuration file already exists at: %s", path)
			logger.Info("use --force to overwrite")
			return nil
		}

		if err := config.Save(); err != nil {
			return err
		}
		fmt.Printf("configuration written to %s\n", path)
		return nil
	},
}

func init() {
	generateConfigCmd.Flags().BoolVar(&printConfig, "print", false, "print the default configuration to stdout instead of writing it")
	generateConfigCmd.Flags().BoolVar(&forceConfig, "force", false, "overwrite an existing configuration file")
}
