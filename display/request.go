package display

import (
	"errors"
	"fmt"

	"github.com/mobile-next/displaycli/types"
	"github.com/mobile-next/displaycli/utils"
)

// Compatibility tells the platform how the content relates to the requested rate.
type Compatibility int

const (
	CompatibilityDefault Compatibility = iota
	CompatibilityFixedSource
)

func (c Compatibility) String() string {
	switch c {
	case CompatibilityFixedSource:
		return "fixed-source"
	default:
		return "default"
	}
}

// ChangeStrategy constrains when the platform may switch modes.
type ChangeStrategy int

const (
	// ChangeOnlyIfSeamless lets the platform ignore the request when the switch
	// would blank or flicker the screen.
	ChangeOnlyIfSeamless ChangeStrategy = iota
	ChangeAlways
)

func (s ChangeStrategy) String() string {
	switch s {
	case ChangeAlways:
		return "always"
	default:
		return "seamless-only"
	}
}

// Platform is the display surface a frame rate request is applied to.
type Platform interface {
	Capabilities() (types.Capabilities, error)

	// legacy path
	SupportedModes() ([]types.DisplayMode, error)
	ActiveMode() (types.DisplayMode, error)
	ApplyAttributes(attrs types.WindowAttributes) error

	// modern path
	SetFrameRate(hz float64, compatibility Compatibility, strategy ChangeStrategy) error
}

// RequestFrameRate asks the platform to run at desiredHz and reports whether the
// request was applied. Failures of any kind, panics included, are reported as
// false. With the seamless-only strategy a request the platform chose to ignore
// still reports true.
func RequestFrameRate(p Platform, desiredHz float64) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("frame rate request panicked: %v", r)
			ok = false
		}
	}()

	// NaN fails this comparison too
	if !(desiredHz > 0) {
		desiredHz = DefaultFrameRate
	}

	if err := requestFrameRate(p, desiredHz); err != nil {
		utils.Verbose("frame rate request for %.2fHz failed: %v", desiredHz, err)
		return false
	}

	return true
}

// ErrUnsupportedPlatform is returned when neither refresh rate API is available.
var ErrUnsupportedPlatform = errors.New("platform does not support refresh rate requests")

func requestFrameRate(p Platform, desiredHz float64) error {
	caps, err := p.Capabilities()
	if err != nil {
		return fmt.Errorf("failed to query capabilities: %w", err)
	}

	switch {
	case caps.FrameRate:
		utils.Verbose("requesting %.2fHz via frame rate api", desiredHz)
		return p.SetFrameRate(desiredHz, CompatibilityDefault, ChangeOnlyIfSeamless)
	case caps.DisplayModes:
		return applyPreferredMode(p, desiredHz)
	default:
		return ErrUnsupportedPlatform
	}
}

func applyPreferredMode(p Platform, desiredHz float64) error {
	// the raw hint is always applied, some devices honor it over the mode id
	attrs := types.WindowAttributes{
		PreferredRefreshRate: desiredHz,
	}

	modes, err := p.SupportedModes()
	if err != nil {
		return fmt.Errorf("failed to list display modes: %w", err)
	}

	if len(modes) == 0 {
		utils.Verbose("no display modes reported, applying raw refresh rate hint only")
	} else {
		current, err := p.ActiveMode()
		if err != nil {
			return fmt.Errorf("failed to get active display mode: %w", err)
		}

		target, _ := SelectMode(modes, current, desiredHz)
		utils.Verbose("selected display mode %d (%dx%d @ %.2fHz)", target.ModeID, target.PhysicalWidth, target.PhysicalHeight, target.RefreshRate)
		attrs.PreferredDisplayModeID = target.ModeID
		attrs.PreferredRefreshRate = target.RefreshRate
	}

	if err := p.ApplyAttributes(attrs); err != nil {
		return fmt.Errorf("failed to apply window attributes: %w", err)
	}

	return nil
}
