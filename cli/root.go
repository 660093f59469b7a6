package cli

import (
	"encoding/json"
	"fmt"

	"github.com/mobile-next/displaycli/commands"
	"github.com/mobile-next/displaycli/config"
	"github.com/mobile-next/displaycli/devices"
	"github.com/mobile-next/displaycli/utils"
	"github.com/spf13/cobra"
)

const version = "dev"

// loaded configuration, populated before any command runs
var cfg = config.Default()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "displaycli",
	Short: "Request display refresh rates on Android devices",
	Long:  `A tool for inspecting display modes and requesting refresh rates on Android devices over adb`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func GetVersion() string {
	return version
}

func initConfig() error {
	if configPath == "" {
		configPath = config.Path()
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	utils.SetVerbose(verbose || cfg.Log.Verbose)
	utils.Verbose("Using config %s", configPath)

	devices.SetAdbPath(cfg.Adb.Path)
	commands.SetDefaultFrameRate(cfg.Display.DefaultHz)

	if strategy == "" {
		strategy = cfg.Display.Strategy
	}
	return devices.SetDefaultStrategy(strategy)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: $DISPLAYCLI_CONFIG or ~/.config/displaycli/config.ini)")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "refresh rate strategy: auto, legacy or modern")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("failed to encode response: %v", err)
		return
	}
	fmt.Println(string(jsonData))
}

// printResponse prints a command response and turns an error status into an error
func printResponse(response *commands.CommandResponse) error {
	printJson(response)
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}
