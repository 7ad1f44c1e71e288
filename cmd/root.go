package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/omenix/omenix/cmd/config"
	"github.com/omenix/omenix/cmd/global"
	"github.com/omenix/omenix/internal"
	"github.com/omenix/omenix/internal/client"
	"github.com/omenix/omenix/internal/configuration"
	"github.com/omenix/omenix/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "omenix",
	Short: "A daemon to control the fans of HP Omen laptops.",
	Long: `omenix is a small daemon that switches the fans of a laptop
between maximum speed and BIOS control, based on the system temperature
or on request of an unprivileged client.`,
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()
		printHeader()

		configPath := configuration.DetectAndReadConfigFile()
		if len(configPath) > 0 {
			ui.Info("Using configuration file at: %s", configPath)
		} else {
			ui.Info("No configuration file found, using defaults")
		}
		configuration.LoadConfig()
		err := configuration.Validate(configPath)
		if err != nil {
			ui.FatalWithoutStacktrace("Config Validation Error: %v", err)
		}

		internal.RunDaemon()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is /etc/omenix-daemon.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")
	rootCmd.PersistentFlags().StringVarP(&global.SocketPath, "socket", "s", client.DefaultSocketPath, "Path of the daemon socket")

	rootCmd.Flags().Int("temp-threshold-high", 75, "Temperature in °C at or above which fans are switched to max in auto mode")
	rootCmd.Flags().Int("temp-threshold-low", 70, "Temperature in °C at or below which fans are handed back to the BIOS in auto mode")
	rootCmd.Flags().Uint("consecutive-high-temp-limit", 3, "Number of consecutive high samples required to switch to max")
	rootCmd.Flags().Uint("consecutive-low-temp-limit", 3, "Number of consecutive low samples required to switch to bios")
	rootCmd.Flags().Duration("temp-check-interval", 5*time.Second, "Interval between temperature checks")
	rootCmd.Flags().Duration("max-fan-write-interval", 0, "Interval to re-write the max fan state, 0 disables it")

	bindFlag("socket_path", rootCmd.PersistentFlags().Lookup("socket"))
	bindFlag("temp_threshold_high", rootCmd.Flags().Lookup("temp-threshold-high"))
	bindFlag("temp_threshold_low", rootCmd.Flags().Lookup("temp-threshold-low"))
	bindFlag("consecutive_high_temp_limit", rootCmd.Flags().Lookup("consecutive-high-temp-limit"))
	bindFlag("consecutive_low_temp_limit", rootCmd.Flags().Lookup("consecutive-low-temp-limit"))
	bindFlag("temp_check_interval", rootCmd.Flags().Lookup("temp-check-interval"))
	bindFlag("max_fan_write_interval", rootCmd.Flags().Lookup("max-fan-write-interval"))

	rootCmd.AddCommand(config.Command)
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("omen", pterm.NewStyle(pterm.FgLightRed)),
		pterm.NewLettersFromStringWithStyle("ix", pterm.NewStyle(pterm.FgWhite)),
	).Render()
	if err != nil {
		fmt.Println("omenix")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
