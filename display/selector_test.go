package display

import (
	"testing"

	"github.com/mobile-next/displaycli/types"
)

func mode(id, w, h int, hz float64) types.DisplayMode {
	return types.DisplayMode{ModeID: id, PhysicalWidth: w, PhysicalHeight: h, RefreshRate: hz}
}

func TestSelectMode(t *testing.T) {
	current := mode(1, 1080, 2400, 60)

	tests := []struct {
		name      string
		modes     []types.DisplayMode
		desiredHz float64
		wantID    int
		wantFound bool
	}{
		{
			name:      "exact match",
			modes:     []types.DisplayMode{mode(1, 1080, 2400, 60), mode(2, 1080, 2400, 90), mode(3, 1080, 2400, 120)},
			desiredHz: 90,
			wantID:    2,
			wantFound: true,
		},
		{
			name:      "above every mode falls back to highest",
			modes:     []types.DisplayMode{mode(1, 1080, 2400, 60), mode(2, 1080, 2400, 90)},
			desiredHz: 120,
			wantID:    2,
			wantFound: true,
		},
		{
			name:      "empty list",
			modes:     nil,
			desiredHz: 90,
			wantFound: false,
		},
		{
			name:      "unsorted input picks smallest qualifying rate",
			modes:     []types.DisplayMode{mode(3, 1080, 2400, 120), mode(1, 1080, 2400, 60), mode(2, 1080, 2400, 90)},
			desiredHz: 61,
			wantID:    2,
			wantFound: true,
		},
		{
			name:      "epsilon absorbs device rounding",
			modes:     []types.DisplayMode{mode(1, 1080, 2400, 59.94), mode(2, 1080, 2400, 89.95), mode(3, 1080, 2400, 120)},
			desiredHz: 90,
			wantID:    2,
			wantFound: true,
		},
		{
			name:      "other resolutions are ignored when current matches",
			modes:     []types.DisplayMode{mode(1, 1080, 2400, 60), mode(4, 1440, 3200, 90), mode(3, 1080, 2400, 120)},
			desiredHz: 90,
			wantID:    3,
			wantFound: true,
		},
		{
			name:      "no resolution match considers every mode",
			modes:     []types.DisplayMode{mode(5, 720, 1600, 60), mode(6, 1440, 3200, 90)},
			desiredHz: 90,
			wantID:    6,
			wantFound: true,
		},
		{
			name:      "ties keep enumeration order",
			modes:     []types.DisplayMode{mode(7, 1080, 2400, 90), mode(8, 1080, 2400, 90)},
			desiredHz: 90,
			wantID:    7,
			wantFound: true,
		},
		{
			name:      "low request picks slowest mode",
			modes:     []types.DisplayMode{mode(2, 1080, 2400, 90), mode(1, 1080, 2400, 60)},
			desiredHz: 30,
			wantID:    1,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := SelectMode(tt.modes, current, tt.desiredHz)
			if found != tt.wantFound {
				t.Fatalf("SelectMode() found = %v, want %v", found, tt.wantFound)
			}
			if found && got.ModeID != tt.wantID {
				t.Errorf("SelectMode() = mode %d, want mode %d", got.ModeID, tt.wantID)
			}
		})
	}
}

func TestSelectMode_ReturnsMemberOfInput(t *testing.T) {
	modes := []types.DisplayMode{
		mode(1, 1080, 2400, 60),
		mode(2, 1080, 2400, 90),
		mode(3, 1440, 3200, 120),
		mode(4, 1080, 2400, 144),
	}
	current := mode(1, 1080, 2400, 60)

	for hz := 1.0; hz <= 200; hz += 0.5 {
		got, found := SelectMode(modes, current, hz)
		if !found {
			t.Fatalf("SelectMode(%v) found nothing", hz)
		}

		member := false
		for _, m := range modes {
			if m == got {
				member = true
				break
			}
		}
		if !member {
			t.Fatalf("SelectMode(%v) = %+v, not in input", hz, got)
		}
	}
}

func TestSelectMode_SmallestQualifyingRate(t *testing.T) {
	modes := []types.DisplayMode{
		mode(4, 1080, 2400, 144),
		mode(1, 1080, 2400, 60),
		mode(3, 1080, 2400, 120),
		mode(2, 1080, 2400, 90),
	}
	current := mode(1, 1080, 2400, 60)

	for hz := 1.0; hz <= 144; hz += 0.25 {
		got, _ := SelectMode(modes, current, hz)
		if got.RefreshRate < hz-rateEpsilon {
			t.Fatalf("SelectMode(%v) = %vHz, below requested rate", hz, got.RefreshRate)
		}
		for _, m := range modes {
			if m.RefreshRate >= hz-rateEpsilon && m.RefreshRate < got.RefreshRate {
				t.Fatalf("SelectMode(%v) = %vHz, but %vHz also qualifies", hz, got.RefreshRate, m.RefreshRate)
			}
		}
	}
}

func TestSelectMode_DoesNotReorderInput(t *testing.T) {
	modes := []types.DisplayMode{mode(3, 1080, 2400, 120), mode(1, 1080, 2400, 60)}

	SelectMode(modes, mode(1, 1080, 2400, 60), 90)

	if modes[0].ModeID != 3 || modes[1].ModeID != 1 {
		t.Errorf("SelectMode() reordered its input: %+v", modes)
	}
}
