package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"github.com/omenix/omenix/internal/configuration"
	"github.com/omenix/omenix/internal/ui"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "/etc/omenix-daemon.yaml"

var force bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Writes a configuration file containing the default values",
	Long:  `Writes a configuration file containing all default values, by default to ` + defaultConfigPath,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath
		if len(args) > 0 {
			path = args[0]
		}

		if err := writeDefaultConfig(path, force); err != nil {
			return err
		}
		ui.Success("Default configuration written to %s", path)
		return nil
	},
}

func writeDefaultConfig(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	data, err := configuration.DefaultConfigYaml()
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	Command.AddCommand(initCmd)
}
