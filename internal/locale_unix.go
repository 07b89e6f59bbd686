//go:build !windows && !darwin

package internal

// systemLocale has no OS-level source on Unix-like systems; the environment is all there is
func systemLocale() string {
	return ""
}
