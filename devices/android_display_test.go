package devices

import (
	"errors"
	"testing"

	"github.com/mobile-next/displaycli/types"
)

const dumpsysPixel = `DISPLAY MANAGER (dumpsys display)
  mOnlyCode=false
  mSafeMode=false
Display Devices: size=1
  DisplayDeviceInfo{"Built-in Screen": uniqueId="local:4619827259835644672", 1080 x 2400, modeId 2, defaultModeId 1, supportedModes [{id=1, width=1080, height=2400, fps=60.000004, alternativeRefreshRates=[120.00001]}, {id=2, width=1080, height=2400, fps=120.00001, alternativeRefreshRates=[60.000004]}]}
Logical Displays: size=1
  Display 0:
    mBaseDisplayInfo=DisplayInfo{"Built-in Screen", displayId 0, real 1080 x 2400, largest app 2400 x 2400, smallest app 1080 x 1080, appVsyncOff 1000000, presDeadline 11666666, mode 2, modeId 2, renderFrameRate 120.00001, defaultModeId 1, supportedModes [{id=1, width=1080, height=2400, fps=60.000004, vsync=60.000004, synthetic=false, alternativeRefreshRates=[120.00001], supportedHdrTypes=[2, 3, 4]}, {id=2, width=1080, height=2400, fps=120.00001, vsync=120.00001, synthetic=false, alternativeRefreshRates=[60.000004], supportedHdrTypes=[2, 3, 4]}], hdrCapabilities HdrCapabilities{}, state ON}
`

const dumpsysLegacy = `DISPLAY MANAGER (dumpsys display)
Display Devices: size=1
  DisplayDeviceInfo{"Built-in Screen": uniqueId="local:0", 1440 x 2560, modeId 1, defaultModeId 1, supportedModes [{id=1, width=1440, height=2560, fps=60.0}, {id=2, width=1080, height=1920, fps=60.0}]}
`

func TestParseSupportedModes(t *testing.T) {
	tests := []struct {
		name    string
		dumpsys string
		want    []types.DisplayMode
		wantErr error
	}{
		{
			name:    "base display info preferred",
			dumpsys: dumpsysPixel,
			want: []types.DisplayMode{
				{ModeID: 1, PhysicalWidth: 1080, PhysicalHeight: 2400, RefreshRate: 60.000004},
				{ModeID: 2, PhysicalWidth: 1080, PhysicalHeight: 2400, RefreshRate: 120.00001},
			},
		},
		{
			name:    "device info fallback",
			dumpsys: dumpsysLegacy,
			want: []types.DisplayMode{
				{ModeID: 1, PhysicalWidth: 1440, PhysicalHeight: 2560, RefreshRate: 60},
				{ModeID: 2, PhysicalWidth: 1080, PhysicalHeight: 1920, RefreshRate: 60},
			},
		},
		{
			name:    "invalid input",
			dumpsys: "some random text",
			wantErr: ErrNoDisplayInfo,
		},
		{
			name:    "empty mode list",
			dumpsys: `    mBaseDisplayInfo=DisplayInfo{"Virtual", displayId 0, modeId 1, supportedModes [], state ON}`,
			want:    []types.DisplayMode{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSupportedModes(tt.dumpsys)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseSupportedModes() error = %v, want %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseSupportedModes() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mode %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseActiveModeId(t *testing.T) {
	tests := []struct {
		name    string
		dumpsys string
		want    int
		wantErr error
	}{
		{"base display info", dumpsysPixel, 2, nil},
		{"device info fallback", dumpsysLegacy, 1, nil},
		{"invalid input", "some random text", 0, ErrNoDisplayInfo},
		{
			name:    "mode id missing",
			dumpsys: `  DisplayDeviceInfo{"Built-in Screen", defaultModeId 1, supportedModes [{id=1, width=1080, height=2400, fps=60.0}]}`,
			wantErr: ErrActiveModeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseActiveModeId(tt.dumpsys)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseActiveModeId() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseActiveModeId() = %v, want %v", got, tt.want)
			}
		})
	}
}
