package models

import "github.com/julianstephens/sfh/internal/constants"

// Settings represents persisted operator configuration
type Settings struct {
	BaseURL           string               `json:"base_url"`            // portal root, e.g. "https://system.fgoupsk.ru"
	LoginID           string               `json:"login_id"`            // portal login; the password lives in the OS keyring
	MaxInFlight       int                  `json:"max_in_flight"`       // admission gate size for submissions
	RequestTimeoutSec int                  `json:"request_timeout_sec"` // per-request timeout in seconds
	DefaultReason     constants.ReasonCode `json:"default_reason"`      // reason used when the prompt is left blank
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:           constants.DefaultBaseURL,
		MaxInFlight:       constants.DefaultMaxInFlight,
		RequestTimeoutSec: int(constants.DefaultRequestTimeout.Seconds()),
		DefaultReason:     constants.ReasonNone,
	}
}
