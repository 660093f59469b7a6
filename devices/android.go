package devices

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mobile-next/displaycli/display"
	"github.com/mobile-next/displaycli/types"
	"github.com/mobile-next/displaycli/utils"
)

const (
	// Display.getSupportedModes and WindowManager.LayoutParams.preferredDisplayModeId
	minDisplayModesSdk = 23
	// Surface.setFrameRate with CHANGE_FRAME_RATE_ONLY_IF_NON_SEAMLESS
	minFrameRateSdk = 31
)

// Strategy values force one refresh rate path regardless of the SDK level
const (
	StrategyAuto   = "auto"
	StrategyLegacy = "legacy"
	StrategyModern = "modern"
)

var defaultStrategy = StrategyAuto

// SetDefaultStrategy sets the strategy for devices discovered from now on
func SetDefaultStrategy(strategy string) error {
	switch strategy {
	case "":
		defaultStrategy = StrategyAuto
	case StrategyAuto, StrategyLegacy, StrategyModern:
		defaultStrategy = strategy
	default:
		return fmt.Errorf("unknown strategy '%s', must be one of: auto, legacy, modern", strategy)
	}
	return nil
}

// apiLevelToVersion maps Android API levels to version strings
var apiLevelToVersion = map[int]string{
	36: "16.0",
	35: "15.0",
	34: "14.0",
	33: "13.0",
	32: "12.1", // Android 12L
	31: "12.0",
	30: "11.0",
	29: "10.0",
	28: "9.0",
	27: "8.1",
	26: "8.0",
	25: "7.1",
	24: "7.0",
	23: "6.0",
	22: "5.1",
	21: "5.0",
}

func convertAPILevelToVersion(apiLevel int) string {
	if version, ok := apiLevelToVersion[apiLevel]; ok {
		return version
	}
	return strconv.Itoa(apiLevel)
}

// AndroidDevice implements the ControllableDevice interface for Android devices
type AndroidDevice struct {
	id       string
	name     string
	state    string
	strategy string
	run      adbRunner

	mu       sync.Mutex
	sdkLevel int

	// refresh settings as found before the first request, nil until then
	settingsMu sync.Mutex
	saved      map[string]string
	pinnedMode bool
}

// NewAndroidDevice creates a device reachable through adb with the given serial
func NewAndroidDevice(id, name, state string) *AndroidDevice {
	return &AndroidDevice{
		id:       id,
		name:     name,
		state:    state,
		strategy: defaultStrategy,
	}
}

func (d *AndroidDevice) ID() string {
	return d.id
}

func (d *AndroidDevice) Name() string {
	return d.name
}

func (d *AndroidDevice) Platform() string {
	return "android"
}

func (d *AndroidDevice) DeviceType() string {
	if strings.HasPrefix(d.id, "emulator-") {
		return "emulator"
	}
	return "real"
}

func (d *AndroidDevice) State() string {
	return d.state
}

// SetStrategy forces the legacy or modern refresh rate path
func (d *AndroidDevice) SetStrategy(strategy string) error {
	switch strategy {
	case "":
		d.strategy = StrategyAuto
	case StrategyAuto, StrategyLegacy, StrategyModern:
		d.strategy = strategy
	default:
		return fmt.Errorf("unknown strategy '%s', must be one of: auto, legacy, modern", strategy)
	}
	return nil
}

func (d *AndroidDevice) runAdbCommand(args ...string) ([]byte, error) {
	cmdArgs := append([]string{"-s", d.id}, args...)
	if d.run != nil {
		return d.run(cmdArgs...)
	}
	return execAdb(cmdArgs...)
}

func (d *AndroidDevice) shell(args ...string) (string, error) {
	output, err := d.runAdbCommand(append([]string{"shell"}, args...)...)
	if err != nil {
		return "", fmt.Errorf("adb shell %s failed: %w\nOutput: %s", strings.Join(args, " "), err, string(output))
	}
	return string(output), nil
}

// SDKLevel returns ro.build.version.sdk, cached after the first successful read
func (d *AndroidDevice) SDKLevel() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sdkLevel > 0 {
		return d.sdkLevel, nil
	}

	output, err := d.shell("getprop", "ro.build.version.sdk")
	if err != nil {
		return 0, err
	}

	level, err := strconv.Atoi(strings.TrimSpace(output))
	if err != nil {
		return 0, fmt.Errorf("unexpected sdk level %q: %w", strings.TrimSpace(output), err)
	}

	d.sdkLevel = level
	return level, nil
}

func (d *AndroidDevice) Capabilities() (types.Capabilities, error) {
	level, err := d.SDKLevel()
	if err != nil {
		return types.Capabilities{}, err
	}

	caps := types.Capabilities{
		DisplayModes: level >= minDisplayModesSdk,
		FrameRate:    level >= minFrameRateSdk,
	}

	switch d.strategy {
	case StrategyLegacy:
		caps.FrameRate = false
	case StrategyModern:
		caps.FrameRate = true
	}

	return caps, nil
}

func (d *AndroidDevice) dumpsysDisplay() (string, error) {
	return d.shell("dumpsys", "display")
}

func (d *AndroidDevice) SupportedModes() ([]types.DisplayMode, error) {
	output, err := d.dumpsysDisplay()
	if err != nil {
		return nil, err
	}

	return parseSupportedModes(output)
}

func (d *AndroidDevice) ActiveMode() (types.DisplayMode, error) {
	output, err := d.dumpsysDisplay()
	if err != nil {
		return types.DisplayMode{}, err
	}

	modes, err := parseSupportedModes(output)
	if err != nil {
		return types.DisplayMode{}, err
	}

	id, err := parseActiveModeId(output)
	if err != nil {
		return types.DisplayMode{}, err
	}

	mode, found := findModeById(modes, id)
	if !found {
		return types.DisplayMode{}, fmt.Errorf("active mode %d is not a supported mode: %w", id, ErrActiveModeUnknown)
	}

	return mode, nil
}

func formatHz(hz float64) string {
	return strconv.FormatFloat(hz, 'f', -1, 64)
}

// refreshSettings are the system settings a frame rate request writes
var refreshSettings = []string{"peak_refresh_rate", "min_refresh_rate"}

func (d *AndroidDevice) putSystemSetting(key string, value string) error {
	_, err := d.shell("settings", "put", "system", key, value)
	return err
}

// saveRefreshSettings remembers the refresh settings before the first write,
// later calls keep the first snapshot
func (d *AndroidDevice) saveRefreshSettings() error {
	d.settingsMu.Lock()
	defer d.settingsMu.Unlock()

	if d.saved != nil {
		return nil
	}

	saved := make(map[string]string, len(refreshSettings))
	for _, key := range refreshSettings {
		output, err := d.shell("settings", "get", "system", key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}

		value := strings.TrimSpace(output)
		if value == "null" {
			value = ""
		}
		saved[key] = value
	}

	d.saved = saved
	return nil
}

// RestoreRefreshRate puts back the refresh settings the device had before its
// first frame rate request and releases a pinned display mode. A device that
// was never changed is left alone.
func (d *AndroidDevice) RestoreRefreshRate() error {
	d.settingsMu.Lock()
	defer d.settingsMu.Unlock()

	if d.saved == nil {
		return nil
	}

	if d.pinnedMode {
		if _, err := d.shell("cmd", "display", "clear-user-preferred-display-mode"); err != nil {
			return err
		}
		d.pinnedMode = false
	}

	for _, key := range refreshSettings {
		var err error
		if value := d.saved[key]; value == "" {
			_, err = d.shell("settings", "delete", "system", key)
		} else {
			err = d.putSystemSetting(key, value)
		}
		if err != nil {
			return err
		}
	}

	utils.Verbose("device %s: restored refresh rate settings", d.id)
	d.saved = nil
	return nil
}

// ApplyAttributes pins the display to the preferred mode where the device
// allows it, then narrows the refresh rate range to the preferred rate.
func (d *AndroidDevice) ApplyAttributes(attrs types.WindowAttributes) error {
	if err := d.saveRefreshSettings(); err != nil {
		return err
	}

	if attrs.PreferredDisplayModeID != 0 {
		if err := d.setPreferredDisplayMode(attrs.PreferredDisplayModeID); err != nil {
			return err
		}
	}

	rate := formatHz(attrs.PreferredRefreshRate)
	if err := d.putSystemSetting("peak_refresh_rate", rate); err != nil {
		return err
	}

	return d.putSystemSetting("min_refresh_rate", rate)
}

func (d *AndroidDevice) setPreferredDisplayMode(modeId int) error {
	level, err := d.SDKLevel()
	if err != nil {
		return err
	}

	// older releases have no shell entry point for a preferred mode, the
	// refresh rate settings alone steer the mode choice there
	if level < minFrameRateSdk {
		utils.Verbose("device %s (sdk %d) cannot pin mode %d, relying on refresh rate settings", d.id, level, modeId)
		return nil
	}

	modes, err := d.SupportedModes()
	if err != nil {
		return err
	}

	mode, found := findModeById(modes, modeId)
	if !found {
		return fmt.Errorf("display mode %d not found on device %s", modeId, d.id)
	}

	_, err = d.shell("cmd", "display", "set-user-preferred-display-mode",
		strconv.Itoa(mode.PhysicalWidth), strconv.Itoa(mode.PhysicalHeight), formatHz(mode.RefreshRate))
	if err != nil {
		return err
	}

	d.settingsMu.Lock()
	d.pinnedMode = true
	d.settingsMu.Unlock()
	return nil
}

// SetFrameRate raises the refresh rate ceiling to hz. With the seamless-only
// strategy the floor is cleared so the compositor switches only when it can do
// so without blanking; otherwise the floor is pinned as well.
func (d *AndroidDevice) SetFrameRate(hz float64, compatibility display.Compatibility, strategy display.ChangeStrategy) error {
	utils.Verbose("device %s: set frame rate %sHz compatibility=%s strategy=%s", d.id, formatHz(hz), compatibility, strategy)

	if err := d.saveRefreshSettings(); err != nil {
		return err
	}

	if err := d.putSystemSetting("peak_refresh_rate", formatHz(hz)); err != nil {
		return err
	}

	floor := "0"
	if strategy == display.ChangeAlways {
		floor = formatHz(hz)
	}

	return d.putSystemSetting("min_refresh_rate", floor)
}

func (d *AndroidDevice) Info() (*FullDeviceInfo, error) {
	level, err := d.SDKLevel()
	if err != nil {
		return nil, fmt.Errorf("failed to get sdk level: %w", err)
	}

	caps, err := d.Capabilities()
	if err != nil {
		return nil, err
	}

	info := &FullDeviceInfo{
		DeviceInfo: DeviceInfo{
			ID:       d.ID(),
			Name:     d.Name(),
			Platform: d.Platform(),
			Type:     d.DeviceType(),
			State:    d.State(),
		},
		Version:      convertAPILevelToVersion(level),
		SDKLevel:     level,
		Capabilities: caps,
	}

	if caps.DisplayModes {
		active, err := d.ActiveMode()
		if err != nil {
			utils.Verbose("failed to get active mode for %s: %v", d.id, err)
		} else {
			info.ActiveMode = &active
		}
	}

	return info, nil
}

func parseAdbDevicesOutput(output string) []*AndroidDevice {
	var devices []*AndroidDevice

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		// adb server startup notices can come before the header
		if strings.HasPrefix(line, "*") || strings.HasPrefix(line, "List of devices") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}

		state := "offline"
		if parts[1] == "device" {
			state = "online"
		}

		devices = append(devices, NewAndroidDevice(parts[0], parts[0], state))
	}

	return devices
}

func getAndroidDeviceName(deviceID string) string {
	output, err := execAdb("-s", deviceID, "shell", "getprop", "ro.product.model")
	if err == nil && len(output) > 0 {
		return strings.TrimSpace(string(output))
	}

	return deviceID
}

// GetAndroidDevices retrieves connected Android devices, offline ones only when showAll is set
func GetAndroidDevices(showAll bool) ([]ControllableDevice, error) {
	output, err := execAdb("devices")
	if err != nil {
		return nil, fmt.Errorf("failed to run 'adb devices': %v", err)
	}

	var result []ControllableDevice
	for _, d := range parseAdbDevicesOutput(string(output)) {
		if d.state != "online" {
			if showAll {
				result = append(result, d)
			}
			continue
		}

		d.name = getAndroidDeviceName(d.id)
		result = append(result, d)
	}

	return result, nil
}
