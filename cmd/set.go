package cmd

import (
	"context"
	"strings"

	"github.com/omenix/omenix/internal/client"
	"github.com/omenix/omenix/internal/control"
	"github.com/omenix/omenix/internal/ui"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:       "set <max|auto|bios>",
	Short:     "Set the fan mode of the running daemon",
	Long:      `max forces the fans to full speed, bios hands control back to the BIOS and auto switches between both based on the temperature.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"max", "auto", "bios"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := control.ParseFanMode(strings.ToLower(args[0]))
		if err != nil {
			return err
		}

		return runClientCommand(cmd, func(ctx context.Context, c *client.Client) error {
			if err := c.SetFanMode(ctx, mode); err != nil {
				return err
			}
			ui.Success("Fan mode set to: %s", mode)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}
