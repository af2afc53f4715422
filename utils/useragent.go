package utils

import (
	"strings"
)

// DeviceType classifies a raw User-Agent string as "Mobile", "Tablet",
// "Desktop" or "Unknown". Tablets are checked before mobile because tablet
// user agents usually contain "mobile" substrings too.
func DeviceType(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown"
	}

	ua := strings.ToLower(userAgent)

	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
		return "Tablet"
	}
	if strings.Contains(ua, "mobile") || strings.Contains(ua, "android") ||
		strings.Contains(ua, "iphone") || strings.Contains(ua, "ipod") {
		return "Mobile"
	}
	return "Desktop"
}

// Browser classifies a raw User-Agent string as "Chrome", "Firefox",
// "Safari", "Edge", "Opera", "Other" or "Unknown".
// Order matters: Edge user agents contain "chrome", and Safari tokens appear
// inside Chrome user agents, so the exclusions below are required. Blink
// Opera carries a Chrome token and intentionally counts as Chrome; only the
// Presto-era "opera" token reaches the Opera case.
func Browser(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown"
	}

	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge/"):
		return "Edge"
	case strings.Contains(ua, "chrome") && !strings.Contains(ua, "chromium"):
		return "Chrome"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "safari") && !strings.Contains(ua, "chrome"):
		return "Safari"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr/"):
		return "Opera"
	}
	return "Other"
}

// RefererDomain extracts the bare domain from a full Referer header value,
// e.g. "https://twitter.com/some/path" -> "twitter.com". An absent referer
// means the visitor typed or bookmarked the link ("Direct").
func RefererDomain(referer string) string {
	if strings.TrimSpace(referer) == "" {
		return "Direct"
	}

	cleaned := strings.TrimPrefix(referer, "https://")
	cleaned = strings.TrimPrefix(cleaned, "http://")
	domain, _, _ := strings.Cut(cleaned, "/")
	if domain == "" {
		return "Unknown"
	}
	return domain
}
