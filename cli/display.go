package cli

import (
	"fmt"

	"github.com/mobile-next/displaycli/commands"
	"github.com/spf13/cobra"
)

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Display refresh rate commands",
	Long:  `Commands for inspecting display modes and requesting a refresh rate.`,
}

// hzFlag returns the --hz value, or nil when the flag was not given
func hzFlag(cmd *cobra.Command) *float64 {
	if !cmd.Flags().Changed("hz") {
		return nil
	}
	hz := frameRateHz
	return &hz
}

var displayModesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List display modes",
	Long:  `Lists the display modes the device supports, its active mode, and the mode a request for --hz would select. Nothing is changed on the device.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := commands.DisplayModesRequest{
			DeviceID: deviceId,
			Hz:       hzFlag(cmd),
		}

		return printResponse(commands.DisplayModesCommand(req))
	},
}

var displayFrameRateCmd = &cobra.Command{
	Use:   "framerate",
	Short: "Request a display refresh rate",
	Long:  `Asks the device to run its display at --hz. On Android 12 and later the change only happens when it is seamless, so the device may keep its current rate even though the request reports success.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := commands.FrameRateRequest{
			DeviceID: deviceId,
			Hz:       hzFlag(cmd),
		}

		result := commands.RequestFrameRate(req)
		printJson(commands.NewSuccessResponse(result))
		if !result.Applied {
			return fmt.Errorf("frame rate request for %gHz was not applied", result.Hz)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(displayCmd)

	displayCmd.AddCommand(displayModesCmd)
	displayCmd.AddCommand(displayFrameRateCmd)

	displayModesCmd.Flags().StringVar(&deviceId, "device", "", "ID of the device to query")
	displayModesCmd.Flags().Float64Var(&frameRateHz, "hz", 0, "refresh rate to preview the selection for (default from config, 90)")

	displayFrameRateCmd.Flags().StringVar(&deviceId, "device", "", "ID of the device to configure")
	displayFrameRateCmd.Flags().Float64Var(&frameRateHz, "hz", 0, "requested refresh rate in Hz (default from config, 90)")
}
