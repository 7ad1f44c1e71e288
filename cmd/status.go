package cmd

import (
	"bytes"
	"context"
	"strconv"

	"github.com/mgutz/ansi"
	"github.com/omenix/omenix/cmd/global"
	"github.com/omenix/omenix/internal/client"
	"github.com/omenix/omenix/internal/protocol"
	"github.com/omenix/omenix/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the running daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClientCommand(cmd, func(ctx context.Context, c *client.Client) error {
			status, err := c.Status(ctx)
			if err != nil {
				return err
			}
			return printStatus(status)
		})
	},
}

func printStatus(status protocol.StatusReply) error {
	temperature := "N/A"
	if status.TemperatureKnown {
		temperature = strconv.Itoa(status.Temperature) + "°C"
	}

	tab := table.Table{
		Headers: []string{"", ""},
		Rows: [][]string{
			{"Fan mode", status.FanMode.String()},
			{"Performance mode", status.PerformanceMode.String()},
			{"Temperature", temperature},
		},
	}

	var buf bytes.Buffer
	err := tab.WriteTable(&buf, createTableConfig())
	if err != nil {
		return err
	}
	ui.Printfln(buf.String())
	return nil
}

func createTableConfig() *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
