package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/mgutz/ansi"
	"github.com/omenix/omenix/internal/configuration"
	"github.com/omenix/omenix/internal/hardware"
	"github.com/omenix/omenix/internal/ui"
	"github.com/omenix/omenix/internal/util"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects the temperature sensors and control files and prints them with their current values`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()
		configuration.DetectAndReadConfigFile()
		configuration.LoadConfig()
		hw := configuration.CurrentConfig.Hardware

		paths, err := hardware.Discover(hardware.Patterns{
			TempSensor:         hw.TempSensorGlob,
			FanControl:         hw.FanControlGlob,
			PerformanceProfile: hw.PerformanceProfileGlob,
		}, filepath.Glob)
		if err != nil {
			ui.FatalWithoutStacktrace("%v", err)
		}
		sysfs := hardware.NewSysfs(paths)

		// === Print detected devices ===
		var sensorRows [][]string
		for idx, path := range paths.TempSensors {
			valueText := "N/A"
			value, err := util.ReadIntFromFile(path)
			if err == nil {
				valueText = strconv.Itoa(value/1000) + "°C"
			}
			sensorRows = append(sensorRows, []string{"", strconv.Itoa(idx), util.GetZoneType(path), path, valueText})
		}
		sensorTable := table.Table{
			Headers: []string{"Sensors", "Index", "Type", "Path", "Value"},
			Rows:    sensorRows,
		}

		fanText := "N/A"
		if value, err := sysfs.ReadFanState(); err == nil {
			fanText = describeFanState(value, hw)
		}
		profileText := "N/A"
		if value, err := sysfs.ReadPerformanceState(); err == nil {
			profileText = value
		}
		writable := "yes"
		if err := hardware.CheckWriteAccess(paths); err != nil {
			writable = ansi.Color("no", "red")
		}
		fanLabel := "Fan"
		if name := util.GetDeviceName(paths.FanControl); len(name) > 0 {
			fanLabel = fmt.Sprintf("Fan (%s)", name)
		}
		controlTable := table.Table{
			Headers: []string{"Controls", "Path", "Value"},
			Rows: [][]string{
				{fanLabel, paths.FanControl, fanText},
				{"Performance", paths.PerformanceProfile, profileText},
				{"Writable", "", writable},
			},
		}

		tableConfig := createTableConfig()
		tables := []table.Table{sensorTable, controlTable}
		for idx, tab := range tables {
			var buf bytes.Buffer
			tableErr := tab.WriteTable(&buf, tableConfig)
			if tableErr != nil {
				ui.Fatal("Error printing table: %v", tableErr)
			}
			tableString := buf.String()
			if idx < (len(tables) - 1) {
				ui.Printf(tableString)
			} else {
				ui.Printfln(tableString)
			}
		}
	},
}

func describeFanState(value int, hw configuration.HardwareConfig) string {
	switch value {
	case hw.MaxFanCode:
		return strconv.Itoa(value) + " (max)"
	case hw.BiosFanCode:
		return strconv.Itoa(value) + " (bios)"
	}
	return strconv.Itoa(value)
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
