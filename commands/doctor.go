package commands

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mobile-next/displaycli/devices"
)

type DoctorInfo struct {
	DisplayCLIVersion string  `json:"displaycli_version"`
	OS                string  `json:"os"`
	OSVersion         string  `json:"os_version"`
	ConfigPath        string  `json:"config_path,omitempty"`
	AndroidHome       string  `json:"android_home"`
	ADBPath           string  `json:"adb_path"`
	ADBVersion        string  `json:"adb_version,omitempty"`
	DefaultFrameRate  float64 `json:"default_frame_rate"`
}

func getOSVersion() string {
	switch runtime.GOOS {
	case "darwin":
		output, err := exec.Command("sw_vers", "-productVersion").CombinedOutput()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(output))
	case "windows":
		output, err := exec.Command("cmd", "/c", "ver").CombinedOutput()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(output))
	case "linux":
		data, err := os.ReadFile("/etc/os-release")
		if err != nil {
			return ""
		}
		return parseOSRelease(string(data))
	default:
		return ""
	}
}

func parseOSRelease(data string) string {
	for _, line := range strings.Split(data, "\n") {
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
		}
	}
	return ""
}

// DoctorCommand performs system diagnostics and returns information about the environment
func DoctorCommand(version string, configPath string) *CommandResponse {
	info := DoctorInfo{
		DisplayCLIVersion: version,
		OS:                runtime.GOOS,
		OSVersion:         getOSVersion(),
		ConfigPath:        configPath,
		AndroidHome:       devices.AndroidSdkPath(),
		ADBPath:           devices.AdbPath(),
		ADBVersion:        devices.AdbVersion(),
		DefaultFrameRate:  DefaultFrameRate(),
	}

	return NewSuccessResponse(info)
}
