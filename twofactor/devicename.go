package twofactor

import "strings"

// ParseDeviceName builds a best-effort human readable label from a user-agent
// string, like "Chrome on Windows". Not authoritative.
func ParseDeviceName(userAgent string) string {
	browser := "Unknown"
	switch {
	case strings.Contains(userAgent, "Edg"):
		browser = "Edge"
	case strings.Contains(userAgent, "Chrome"):
		browser = "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		browser = "Firefox"
	case strings.Contains(userAgent, "Safari"):
		browser = "Safari"
	}

	os := "Unknown"
	switch {
	case strings.Contains(userAgent, "Windows"):
		os = "Windows"
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		os = "iOS"
	case strings.Contains(userAgent, "Mac OS X"), strings.Contains(userAgent, "Macintosh"):
		os = "macOS"
	case strings.Contains(userAgent, "Android"):
		os = "Android"
	case strings.Contains(userAgent, "Linux"):
		os = "Linux"
	}

	return browser + " on " + os
}
