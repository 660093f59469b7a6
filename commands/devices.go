package commands

import (
	"github.com/mobile-next/displaycli/devices"
)

// DevicesCommand lists all connected devices
func DevicesCommand(showAll bool) *CommandResponse {
	allDevices, err := listDevices(showAll)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"devices": devices.ToDeviceInfoList(allDevices),
	})
}
