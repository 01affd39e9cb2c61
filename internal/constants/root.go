package constants

import "time"

const (
	AppName           = "sfh"
	DefaultConfigPath = "~/.config/sfh/sfh.db"
	Version           = "v0.3.0"

	// Portal defaults
	DefaultBaseURL        = "https://system.fgoupsk.ru"
	LoginPath             = "/student/login"
	HomePath              = "/student/"
	DayPagePath           = "/student/?mode=ucheba&act=group&act2=prog&m=%d&d=%d"
	SessionCookieName     = "PHPSESSID"
	UserAgent             = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultRequestTimeout = 10 * time.Second
	MaxBodyExcerpt        = 500

	// Dispatch defaults
	DefaultMaxInFlight = 10
	MaxRangeSpan       = 1000

	// Settings keys
	SettingBaseURL           = "base_url"
	SettingLoginID           = "login_id"
	SettingMaxInFlight       = "max_in_flight"
	SettingRequestTimeoutSec = "request_timeout_sec"
	SettingDefaultReason     = "default_reason"

	// Environment overrides
	EnvBaseURL     = "SFH_BASE_URL"
	EnvMaxInFlight = "SFH_MAX_IN_FLIGHT"
)
