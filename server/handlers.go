package server

import (
	"encoding/json"
	"fmt"

	"github.com/mobile-next/displaycli/commands"
)

type InfoParams struct {
	DeviceID string `json:"deviceId"`
}

type DisplayModesParams struct {
	DeviceID string   `json:"deviceId"`
	Hz       *float64 `json:"hz,omitempty"`
}

type FrameRateParams struct {
	DeviceID string   `json:"deviceId"`
	Hz       *float64 `json:"hz,omitempty"`
}

// decodeParams accepts missing params for methods whose fields are all
// optional. Malformed params come back as invalidParamsError.
func decodeParams(params json.RawMessage, v interface{}, fields string) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}

	if err := json.Unmarshal(params, v); err != nil {
		return invalidParamsError{fmt.Errorf("invalid parameters: %v. Expected fields: %s", err, fields)}
	}

	return nil
}

func handleDevicesList(params json.RawMessage) (interface{}, error) {
	// server always shows all devices, offline ones included
	response := commands.DevicesCommand(true)
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

func handleDeviceInfo(params json.RawMessage) (interface{}, error) {
	var infoParams InfoParams
	if err := decodeParams(params, &infoParams, "deviceId"); err != nil {
		return nil, err
	}

	response := commands.InfoCommand(infoParams.DeviceID)
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return response.Data, nil
}

func handleDisplayModes(params json.RawMessage) (interface{}, error) {
	var modesParams DisplayModesParams
	if err := decodeParams(params, &modesParams, "deviceId, hz"); err != nil {
		return nil, err
	}

	response := commands.DisplayModesCommand(commands.DisplayModesRequest{
		DeviceID: modesParams.DeviceID,
		Hz:       modesParams.Hz,
	})
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return response.Data, nil
}

// handleRequestFrameRate answers with a bare boolean. Only malformed params
// produce an error, every device side failure is reported as false.
func handleRequestFrameRate(params json.RawMessage) (interface{}, error) {
	var frameRateParams FrameRateParams
	if err := decodeParams(params, &frameRateParams, "hz, deviceId"); err != nil {
		return nil, err
	}

	result := commands.RequestFrameRate(commands.FrameRateRequest{
		DeviceID: frameRateParams.DeviceID,
		Hz:       frameRateParams.Hz,
	})

	return result.Applied, nil
}

// invalidParamsError marks handler errors that map to ErrCodeInvalidParams
type invalidParamsError struct {
	err error
}

func (e invalidParamsError) Error() string {
	return e.err.Error()
}

func (e invalidParamsError) Unwrap() error {
	return e.err
}
