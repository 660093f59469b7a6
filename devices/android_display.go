package devices

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/mobile-next/displaycli/types"
)

var (
	ErrNoDisplayInfo     = errors.New("no display info found in dumpsys output")
	ErrActiveModeUnknown = errors.New("active display mode not reported")
)

var (
	// {id=1, width=1080, height=2400, fps=60.000004, alternativeRefreshRates=[120.00001], ...}
	supportedModeRegex = regexp.MustCompile(`\{id=(\d+), width=(\d+), height=(\d+), fps=([0-9.]+)`)
	activeModeIdRegex  = regexp.MustCompile(`\bmodeId (\d+)`)
)

// displayInfoLine returns the DisplayInfo line describing the default display.
// mBaseDisplayInfo is preferred; older releases only print mOverrideDisplayInfo
// or a DisplayDeviceInfo entry.
func displayInfoLine(dumpsys string) string {
	var fallback string
	for _, line := range strings.Split(dumpsys, "\n") {
		if !strings.Contains(line, "supportedModes [") {
			continue
		}

		if strings.Contains(line, "mBaseDisplayInfo=") {
			return line
		}

		if fallback == "" {
			fallback = line
		}
	}

	return fallback
}

// parseSupportedModes extracts the supported mode list from `dumpsys display`
func parseSupportedModes(dumpsys string) ([]types.DisplayMode, error) {
	line := displayInfoLine(dumpsys)
	if line == "" {
		return nil, ErrNoDisplayInfo
	}

	start := strings.Index(line, "supportedModes [")
	matches := supportedModeRegex.FindAllStringSubmatch(line[start:], -1)

	modes := make([]types.DisplayMode, 0, len(matches))
	for _, match := range matches {
		mode, err := modeFromMatch(match)
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}

	return modes, nil
}

// parseActiveModeId returns the mode id the default display is running
func parseActiveModeId(dumpsys string) (int, error) {
	line := displayInfoLine(dumpsys)
	if line == "" {
		return 0, ErrNoDisplayInfo
	}

	match := activeModeIdRegex.FindStringSubmatch(line)
	if match == nil {
		return 0, ErrActiveModeUnknown
	}

	return strconv.Atoi(match[1])
}

func modeFromMatch(match []string) (types.DisplayMode, error) {
	id, err := strconv.Atoi(match[1])
	if err != nil {
		return types.DisplayMode{}, err
	}

	width, err := strconv.Atoi(match[2])
	if err != nil {
		return types.DisplayMode{}, err
	}

	height, err := strconv.Atoi(match[3])
	if err != nil {
		return types.DisplayMode{}, err
	}

	fps, err := strconv.ParseFloat(match[4], 64)
	if err != nil {
		return types.DisplayMode{}, err
	}

	return types.DisplayMode{
		ModeID:         id,
		PhysicalWidth:  width,
		PhysicalHeight: height,
		RefreshRate:    fps,
	}, nil
}

func findModeById(modes []types.DisplayMode, id int) (types.DisplayMode, bool) {
	for _, m := range modes {
		if m.ModeID == id {
			return m, true
		}
	}

	return types.DisplayMode{}, false
}
