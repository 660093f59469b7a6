package display

import (
	"sort"

	"github.com/mobile-next/displaycli/types"
)

const (
	// DefaultFrameRate is used when a request does not carry a rate.
	DefaultFrameRate = 90.0

	// rateEpsilon absorbs rounding in device reported rates (59.94 vs 60).
	rateEpsilon = 0.1
)

// SelectMode picks the mode that best satisfies desiredHz. Modes matching the
// current resolution are preferred; when none match, every mode is considered.
// The slowest mode at or above desiredHz wins, falling back to the fastest one.
// The second return value is false only when modes is empty.
func SelectMode(modes []types.DisplayMode, current types.DisplayMode, desiredHz float64) (types.DisplayMode, bool) {
	if len(modes) == 0 {
		return types.DisplayMode{}, false
	}

	candidates := make([]types.DisplayMode, 0, len(modes))
	for _, m := range modes {
		if m.SameResolution(current) {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		candidates = append(candidates, modes...)
	}

	return pickBestMode(candidates, desiredHz), true
}

// pickBestMode expects a non-empty slice which it is free to reorder.
func pickBestMode(modes []types.DisplayMode, desiredHz float64) types.DisplayMode {
	sort.SliceStable(modes, func(i, j int) bool {
		return modes[i].RefreshRate < modes[j].RefreshRate
	})

	for _, m := range modes {
		if m.RefreshRate+rateEpsilon >= desiredHz {
			return m
		}
	}

	return modes[len(modes)-1]
}
