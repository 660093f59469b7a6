package commands

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mobile-next/displaycli/devices"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

const deviceCacheSize = 32

// deviceCache keeps device instances so their cached sdk level and saved
// refresh settings survive between requests
var deviceCache = mustNewDeviceCache()

func mustNewDeviceCache() *lru.Cache[string, devices.ControllableDevice] {
	cache, err := lru.New[string, devices.ControllableDevice](deviceCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}

// DeviceLister discovers devices, offline ones included when showAll is set
type DeviceLister func(showAll bool) ([]devices.ControllableDevice, error)

var listDevices DeviceLister = devices.GetAllControllableDevices

// SetDeviceLister replaces device discovery and returns the previous lister.
// The device cache is purged so no instance from the old lister survives.
func SetDeviceLister(lister DeviceLister) DeviceLister {
	previous := listDevices
	listDevices = lister
	deviceCache.Purge()
	return previous
}

// FindDevice finds a device by ID, using cache when possible
func FindDevice(deviceID string) (devices.ControllableDevice, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device ID is required")
	}

	// get all devices including offline ones and find the one we want
	allDevices, err := listDevices(true)
	if err != nil {
		return nil, fmt.Errorf("error getting devices: %w", err)
	}
	refreshDeviceCache(allDevices)

	for _, d := range allDevices {
		if d.ID() == deviceID {
			return cachedDevice(d), nil
		}
	}

	return nil, fmt.Errorf("device not found: %s", deviceID)
}

// FindDeviceOrAutoSelect finds a device by ID, or auto-selects if deviceID is empty
func FindDeviceOrAutoSelect(deviceID string) (devices.ControllableDevice, error) {
	if deviceID != "" {
		return FindDevice(deviceID)
	}

	allDevices, err := listDevices(false)
	if err != nil {
		return nil, fmt.Errorf("error getting devices: %w", err)
	}
	refreshDeviceCache(allDevices)

	// filter to only online devices for auto-selection
	var onlineDevices []devices.ControllableDevice
	for _, d := range allDevices {
		if d.State() == "online" {
			onlineDevices = append(onlineDevices, d)
		}
	}

	if len(onlineDevices) == 0 {
		return nil, fmt.Errorf("no online devices found")
	}

	if len(onlineDevices) > 1 {
		return nil, fmt.Errorf("multiple devices found (%d), please specify --device with one of: %s", len(onlineDevices), getDeviceIDList(onlineDevices))
	}

	return cachedDevice(onlineDevices[0]), nil
}

// cachedDevice returns the cached instance for a listed device, caching the
// listed one when there is none
func cachedDevice(listed devices.ControllableDevice) devices.ControllableDevice {
	if cached, exists := deviceCache.Get(listed.ID()); exists {
		return cached
	}

	deviceCache.Add(listed.ID(), listed)
	return listed
}

// refreshDeviceCache evicts devices missing from the latest listing and those
// whose state changed since they were cached
func refreshDeviceCache(listed []devices.ControllableDevice) {
	current := make(map[string]string, len(listed))
	for _, d := range listed {
		current[d.ID()] = d.State()
	}

	for _, id := range deviceCache.Keys() {
		cached, ok := deviceCache.Peek(id)
		if !ok {
			continue
		}

		if state, found := current[id]; !found || state != cached.State() {
			deviceCache.Remove(id)
		}
	}
}

// getDeviceIDList returns a comma-separated list of device IDs for error messages
func getDeviceIDList(devices []devices.ControllableDevice) string {
	var ids []string
	for _, d := range devices {
		ids = append(ids, d.ID())
	}
	return fmt.Sprintf("[%s]", strings.Join(ids, ", "))
}
