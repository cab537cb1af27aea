package main

import (
	"github.com/spf13/cobra"
)

const maskedPassword = "********"

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect qbuild configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.Password != "" {
				cfg.Database.Password = maskedPassword
			}
			return newPrinter(cmd.OutOrStdout()).yaml(cfg)
		},
	})
	return cmd
}
