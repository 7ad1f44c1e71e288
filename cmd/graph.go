package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/omenix/omenix/internal/client"
	"github.com/omenix/omenix/internal/protocol"
	"github.com/omenix/omenix/internal/ui"
	"github.com/spf13/cobra"
)

var (
	graphSamples  int
	graphInterval time.Duration
)

type statusClient interface {
	Status(ctx context.Context) (protocol.StatusReply, error)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Plot the temperature reported by the running daemon",
	Long:  `Polls the daemon status for a number of samples and prints the reported temperatures as a graph.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if graphSamples < 2 {
			return fmt.Errorf("at least 2 samples are required, got %d", graphSamples)
		}

		return runClientCommand(cmd, func(ctx context.Context, c *client.Client) error {
			ui.Info("Collecting %d samples, one every %s...", graphSamples, graphInterval)
			values, last, err := collectTemperatures(ctx, c, graphSamples, graphInterval)
			if err != nil {
				return err
			}
			if len(values) <= 0 {
				return fmt.Errorf("the daemon did not report any temperature yet")
			}
			ui.Printfln(renderTemperatureGraph(values, last))
			return nil
		})
	},
}

// collectTemperatures polls the daemon and returns all known temperatures
// together with the last status.
func collectTemperatures(ctx context.Context, c statusClient, samples int, interval time.Duration) ([]float64, protocol.StatusReply, error) {
	var values []float64
	var last protocol.StatusReply
	for i := 0; i < samples; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return values, last, ctx.Err()
			case <-time.After(interval):
			}
		}

		status, err := c.Status(ctx)
		if err != nil {
			return values, last, err
		}
		last = status
		if status.TemperatureKnown {
			values = append(values, float64(status.Temperature))
		}
	}
	return values, last, nil
}

func renderTemperatureGraph(values []float64, last protocol.StatusReply) string {
	caption := fmt.Sprintf("Temperature (°C), fan mode: %s, performance mode: %s", last.FanMode, last.PerformanceMode)
	return asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
}

func init() {
	graphCmd.Flags().IntVarP(&graphSamples, "samples", "n", 30, "Number of samples to collect")
	graphCmd.Flags().DurationVarP(&graphInterval, "interval", "i", time.Second, "Time between two samples")
	rootCmd.AddCommand(graphCmd)
}
