package devices

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// adbRunner executes adb with the given arguments and returns combined output
type adbRunner func(args ...string) ([]byte, error)

var (
	adbPathMu sync.RWMutex
	adbPath   = "adb"
)

// SetAdbPath sets the adb binary used for every device. An empty path or
// plain "adb" triggers discovery through ANDROID_HOME and PATH.
func SetAdbPath(path string) {
	adbPathMu.Lock()
	defer adbPathMu.Unlock()
	adbPath = ResolveAdbPath(path)
}

// AdbPath returns the adb binary in use
func AdbPath() string {
	adbPathMu.RLock()
	defer adbPathMu.RUnlock()
	return adbPath
}

func execAdb(args ...string) ([]byte, error) {
	cmd := exec.Command(AdbPath(), args...)
	return cmd.CombinedOutput()
}

// ResolveAdbPath returns configured when it names an explicit binary,
// otherwise the first adb found in the Android SDK or PATH.
func ResolveAdbPath(configured string) string {
	if configured != "" && configured != "adb" {
		return configured
	}

	sdkPath := AndroidSdkPath()
	if sdkPath != "" {
		candidate := filepath.Join(sdkPath, "platform-tools", "adb")
		if runtime.GOOS == "windows" {
			candidate += ".exe"
		}

		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if found, err := exec.LookPath("adb"); err == nil {
		return found
	}

	return "adb"
}

// AndroidSdkPath returns the Android SDK location or "" when none is found
func AndroidSdkPath() string {
	sdkPath := os.Getenv("ANDROID_HOME")
	if sdkPath != "" {
		if _, err := os.Stat(sdkPath); err == nil {
			return sdkPath
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = append(candidates, filepath.Join(homeDir, "Library", "Android", "sdk"))
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			candidates = append(candidates, filepath.Join(localAppData, "Android", "Sdk"))
		}
		candidates = append(candidates, filepath.Join(homeDir, "AppData", "Local", "Android", "Sdk"))
	default:
		candidates = append(candidates, filepath.Join(homeDir, "Android", "Sdk"))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// AdbVersion returns the first line of `adb version`, or "" if adb cannot run
func AdbVersion() string {
	output, err := execAdb("version")
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(output), "\n") {
		if strings.Contains(line, "Android Debug Bridge version") {
			return strings.TrimSpace(line)
		}
	}

	return strings.TrimSpace(string(output))
}
