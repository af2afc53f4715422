package utils

import (
	"time"
)

// Link lifetime constants
const (
	// RedirectCacheTTL is the time-to-live for cached code->URL entries (24 hours).
	// Every cache read slides the entry forward by this duration.
	RedirectCacheTTL = 24 * time.Hour

	// AnonymousLinkTTL is the lifetime of links created without an owner (30 days)
	AnonymousLinkTTL = 30 * 24 * time.Hour
)

// Placeholder values for click dimensions that cannot be resolved yet
const (
	// UnknownLabel replaces empty values in click breakdowns
	UnknownLabel = "Unknown"

	// CountryPlaceholder is recorded until geo-IP resolution is wired in
	CountryPlaceholder = UnknownLabel
)

// ContextKey is the type for request-scoped context values
type ContextKey string

// Context keys attached by handlers when building request contexts
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)
