// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and CRUDAPI_* env vars.
// - Errors returned by Load wrap this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// MaxBodyBytes caps request bodies on write routes. Zero disables the cap.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// CORS policy. "*" in a list means everything is allowed.
	CORSAllowOrigins     []string `koanf:"cors_allow_origins"`
	CORSAllowMethods     []string `koanf:"cors_allow_methods"`
	CORSAllowHeaders     []string `koanf:"cors_allow_headers"`
	CORSAllowCredentials bool     `koanf:"cors_allow_credentials"`

	// CORSMaxAge is the preflight cache lifetime in seconds.
	CORSMaxAge int `koanf:"cors_max_age"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8000",
		MaxBodyBytes:         0,
		CORSAllowOrigins:     []string{"*"},
		CORSAllowMethods:     []string{"*"},
		CORSAllowHeaders:     []string{"*"},
		CORSAllowCredentials: true,
		CORSMaxAge:           600,
	}
}
