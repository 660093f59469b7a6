package devices

import (
	"github.com/mobile-next/displaycli/display"
	"github.com/mobile-next/displaycli/types"
	"github.com/mobile-next/displaycli/utils"
)

// ControllableDevice is a device whose display refresh rate can be requested
type ControllableDevice interface {
	display.Platform

	ID() string
	Name() string
	Platform() string   // e.g., "android"
	DeviceType() string // e.g., "real", "emulator"
	State() string      // e.g., "online", "offline"

	Info() (*FullDeviceInfo, error)
}

// GetAllControllableDevices aggregates all known devices
func GetAllControllableDevices(showAll bool) ([]ControllableDevice, error) {
	var allDevices []ControllableDevice

	androidDevices, err := GetAndroidDevices(showAll)
	if err != nil {
		utils.Verbose("Warning: Failed to get Android devices: %v", err)
	} else {
		allDevices = append(allDevices, androidDevices...)
	}

	return allDevices, nil
}

// DeviceInfo represents the JSON-friendly device information
type DeviceInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Type     string `json:"type"`
	State    string `json:"state"`
}

type FullDeviceInfo struct {
	DeviceInfo
	Version      string             `json:"version"`
	SDKLevel     int                `json:"sdkLevel"`
	Capabilities types.Capabilities `json:"capabilities"`
	ActiveMode   *types.DisplayMode `json:"activeMode,omitempty"`
}

// ToDeviceInfoList converts devices to their JSON-friendly form
func ToDeviceInfoList(devices []ControllableDevice) []DeviceInfo {
	deviceInfoList := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		deviceInfoList[i] = DeviceInfo{
			ID:       d.ID(),
			Name:     d.Name(),
			Platform: d.Platform(),
			Type:     d.DeviceType(),
			State:    d.State(),
		}
	}

	return deviceInfoList
}
