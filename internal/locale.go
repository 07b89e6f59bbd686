package internal

import "os"

// localeEnvVars are checked in order; LC_MONETARY is the most specific for currency
var localeEnvVars = []string{"LC_MONETARY", "LC_ALL", "LANG"}

// skipSystemLocale can be set to true in tests to skip OS-level locale detection
var skipSystemLocale = false

// detectSystemLocale returns the system locale string, e.g. "sv_SE.UTF-8".
// Environment variables win over the OS preference read by systemLocale.
// Returns empty string if no valid locale is found.
func detectSystemLocale() string {
	if locale := envLocale(); locale != "" {
		return locale
	}
	if skipSystemLocale {
		return ""
	}
	return systemLocale()
}

// envLocale returns the first usable locale from localeEnvVars, skipping C and POSIX
func envLocale() string {
	for _, envVar := range localeEnvVars {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}
