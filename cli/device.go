package cli

import (
	"github.com/mobile-next/displaycli/commands"
	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Device management commands",
	Long:  `Commands for inspecting individual devices.`,
}

var deviceInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Get device info",
	Long:  `Get information about a connected device, including its Android version and refresh rate capabilities.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.InfoCommand(deviceId))
	},
}

func init() {
	rootCmd.AddCommand(deviceCmd)

	deviceCmd.AddCommand(deviceInfoCmd)

	deviceInfoCmd.Flags().StringVar(&deviceId, "device", "", "ID of the device to get info from")
}
