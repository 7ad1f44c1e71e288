package cmd

import (
	"github.com/omenix/omenix/internal/ui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of omenix",
	Long:  `All software has versions. This is omenix's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln("0.3.0")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
