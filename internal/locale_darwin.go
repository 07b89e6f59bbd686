//go:build darwin

package internal

import (
	"os/exec"
	"strings"
)

// systemLocale reads the macOS system preference (AppleLocale)
func systemLocale() string {
	out, err := exec.Command("defaults", "read", "-g", "AppleLocale").Output()
	if err != nil {
		return ""
	}

	// AppleLocale format is like "en_US" or "sv_SE" - already what we need
	return strings.TrimSpace(string(out))
}
