package types

// DisplayMode is a resolution and refresh rate combination reported by a device.
type DisplayMode struct {
	ModeID         int     `json:"modeId"`
	PhysicalWidth  int     `json:"physicalWidth"`
	PhysicalHeight int     `json:"physicalHeight"`
	RefreshRate    float64 `json:"refreshRate"`
}

// SameResolution reports whether both modes share a physical size.
func (m DisplayMode) SameResolution(other DisplayMode) bool {
	return m.PhysicalWidth == other.PhysicalWidth && m.PhysicalHeight == other.PhysicalHeight
}

// Capabilities describes which refresh rate APIs a platform exposes.
type Capabilities struct {
	// DisplayModes is true when the platform can enumerate modes and accept
	// a preferred mode id (Android 6.0 and later).
	DisplayModes bool `json:"displayModes"`
	// FrameRate is true when the platform accepts a direct frame rate request
	// with a seamless-only change strategy (Android 12 and later).
	FrameRate bool `json:"frameRate"`
}

// WindowAttributes are the advisory hints applied by the legacy path.
type WindowAttributes struct {
	PreferredRefreshRate   float64 `json:"preferredRefreshRate"`
	PreferredDisplayModeID int     `json:"preferredDisplayModeId,omitempty"`
}
