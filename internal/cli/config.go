package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmcdole/mosaic/internal/adapter"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	cmd.AddCommand(newConfigInitCmd(flags))
	return cmd
}

func newConfigInitCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file := flags.configFile
			if file == "" {
				file = adapter.DefaultConfigFile()
			}
			if _, err := os.Stat(file); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", file)
			}
			if err := adapter.SaveConfigTo(adapter.DefaultConfig(), file); err != nil {
				return err
			}
			cmd.Printf("Wrote default config to %s\n", file)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}
