package cmd

import (
	"context"
	"strings"

	"github.com/omenix/omenix/internal/client"
	"github.com/omenix/omenix/internal/control"
	"github.com/omenix/omenix/internal/ui"
	"github.com/spf13/cobra"
)

var performanceCmd = &cobra.Command{
	Use:       "performance <balanced|performance>",
	Short:     "Set the platform performance profile of the running daemon",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"balanced", "performance"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := control.ParsePerformanceMode(strings.ToLower(args[0]))
		if err != nil {
			return err
		}

		return runClientCommand(cmd, func(ctx context.Context, c *client.Client) error {
			if err := c.SetPerformanceMode(ctx, mode); err != nil {
				return err
			}
			ui.Success("Performance mode set to: %s", mode)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(performanceCmd)
}
