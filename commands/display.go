package commands

import (
	"fmt"

	"github.com/mobile-next/displaycli/devices"
	"github.com/mobile-next/displaycli/display"
	"github.com/mobile-next/displaycli/types"
	"github.com/mobile-next/displaycli/utils"
)

var defaultFrameRate = display.DefaultFrameRate

// restoreHook, when set, receives every device a frame rate request reaches
var restoreHook *devices.ShutdownHook

// RestoreOnShutdown makes devices touched by frame rate requests get their
// refresh settings back when hook runs. A nil hook turns this off.
func RestoreOnShutdown(hook *devices.ShutdownHook) {
	restoreHook = hook
}

// SetDefaultFrameRate sets the rate used when a request omits hz
func SetDefaultFrameRate(hz float64) {
	if hz > 0 {
		defaultFrameRate = hz
	}
}

// DefaultFrameRate returns the rate used when a request omits hz
func DefaultFrameRate() float64 {
	return defaultFrameRate
}

func resolveHz(hz *float64) float64 {
	if hz == nil || !(*hz > 0) {
		return defaultFrameRate
	}
	return *hz
}

// FrameRateRequest asks a device to run its display at Hz
type FrameRateRequest struct {
	DeviceID string   `json:"deviceId"`
	Hz       *float64 `json:"hz,omitempty"`
}

// FrameRateResponse reports the outcome of a frame rate request
type FrameRateResponse struct {
	DeviceID string  `json:"deviceId,omitempty"`
	Hz       float64 `json:"hz"`
	Applied  bool    `json:"applied"`
}

// RequestFrameRate applies the request and reports success. It never fails:
// a device that cannot be found counts as an unsuccessful request.
func RequestFrameRate(req FrameRateRequest) FrameRateResponse {
	hz := resolveHz(req.Hz)

	device, err := FindDeviceOrAutoSelect(req.DeviceID)
	if err != nil {
		utils.Warn("frame rate request for %.2fHz dropped: %v", hz, err)
		return FrameRateResponse{DeviceID: req.DeviceID, Hz: hz}
	}

	if restorer, ok := device.(devices.RefreshRestorer); ok && restoreHook != nil {
		restoreHook.RestoreOnShutdown(restorer)
	}

	applied := display.RequestFrameRate(device, hz)
	utils.Verbose("frame rate request for %.2fHz on %s applied=%v", hz, device.ID(), applied)

	return FrameRateResponse{
		DeviceID: device.ID(),
		Hz:       hz,
		Applied:  applied,
	}
}

// FrameRateCommand wraps RequestFrameRate in a command response
func FrameRateCommand(req FrameRateRequest) *CommandResponse {
	return NewSuccessResponse(RequestFrameRate(req))
}

// DisplayModesRequest lists a device's display modes
type DisplayModesRequest struct {
	DeviceID string   `json:"deviceId"`
	Hz       *float64 `json:"hz,omitempty"`
}

// DisplayModesResponse shows the modes and which one a request for DesiredHz would pick
type DisplayModesResponse struct {
	Modes        []types.DisplayMode `json:"modes"`
	ActiveMode   *types.DisplayMode  `json:"activeMode,omitempty"`
	DesiredHz    float64             `json:"desiredHz"`
	SelectedMode *types.DisplayMode  `json:"selectedMode,omitempty"`
}

// DisplayModesCommand reports the supported modes without changing anything
func DisplayModesCommand(req DisplayModesRequest) *CommandResponse {
	device, err := FindDeviceOrAutoSelect(req.DeviceID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding device: %w", err))
	}

	modes, err := device.SupportedModes()
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to list display modes: %w", err))
	}

	response := DisplayModesResponse{
		Modes:     modes,
		DesiredHz: resolveHz(req.Hz),
	}

	if len(modes) == 0 {
		return NewSuccessResponse(response)
	}

	active, err := device.ActiveMode()
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to get active display mode: %w", err))
	}
	response.ActiveMode = &active

	if selected, found := display.SelectMode(modes, active, response.DesiredHz); found {
		response.SelectedMode = &selected
	}

	return NewSuccessResponse(response)
}
