package cli

var (
	verbose    bool
	configPath string

	// all commands
	deviceId string

	// for devices command
	showAllDevices bool

	// for display commands
	frameRateHz float64
	strategy    string
)
