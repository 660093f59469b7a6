package commands

import (
	"fmt"
)

// InfoCommand returns details about a device, including its refresh rate capabilities
func InfoCommand(deviceID string) *CommandResponse {
	targetDevice, err := FindDeviceOrAutoSelect(deviceID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding device: %w", err))
	}

	info, err := targetDevice.Info()
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error getting device info: %w", err))
	}

	return NewSuccessResponse(info)
}
