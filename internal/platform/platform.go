// Package platform detects which host environment vibe is running on.
// Only macOS and Windows/WSL hosts are supported; everything else is
// treated as the nearest match so the tool stays usable.
package platform

import (
	"os"
	"runtime"
	"strings"
)

// Platform identifies the host environment.
type Platform int

const (
	MacOS Platform = iota
	WSL
)

func (p Platform) String() string {
	switch p {
	case WSL:
		return "wsl"
	default:
		return "macos"
	}
}

// Detect determines the host platform.
// The VIBE_PLATFORM environment variable ("macos" or "wsl") overrides
// detection, which is useful in tests and unusual setups.
func Detect() Platform {
	return detect(os.Getenv("VIBE_PLATFORM"), runtime.GOOS, procVersion())
}

func detect(override, goos, procVersion string) Platform {
	switch strings.ToLower(strings.TrimSpace(override)) {
	case "macos", "darwin":
		return MacOS
	case "wsl", "windows":
		return WSL
	}

	if goos == "darwin" {
		return MacOS
	}
	if goos == "linux" {
		v := strings.ToLower(procVersion)
		if strings.Contains(v, "microsoft") || strings.Contains(v, "wsl") {
			return WSL
		}
		// Plain Linux has no separate profile; assume a WSL-like setup.
		return WSL
	}
	return MacOS
}

func procVersion() string {
	b, err := os.ReadFile("/proc/version")
	if err != nil {
		return ""
	}
	return string(b)
}
