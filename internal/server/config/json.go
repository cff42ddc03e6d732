package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/arestate/internal/flagx"
	"github.com/dmitrijs2005/arestate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Duration fields use timex.Duration, which accepts both strings such as
// "5m" and integer nanoseconds. Pointer fields tell an absent key apart from
// a zero value.
type JsonConfig struct {
	EndpointAddr    *string         `json:"endpoint_addr"`
	DatabaseDSN     *string         `json:"database_dsn"`
	SecretKey       *string         `json:"secret_key"`
	SessionValidity *timex.Duration `json:"session_validity"`
	OTPValidity     *timex.Duration `json:"otp_validity"`
	OTPMaxAttempts  *int            `json:"otp_max_attempts"`
	CookieName      *string         `json:"cookie_name"`
	CookieSecure    *bool           `json:"cookie_secure"`
	LogLevel        *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag into cfg. Without either flag nothing is loaded.
// It panics if the file cannot be read or parsed.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != nil {
		cfg.EndpointAddr = *jc.EndpointAddr
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.SessionValidity != nil {
		cfg.SessionValidity = jc.SessionValidity.Duration
	}
	if jc.OTPValidity != nil {
		cfg.OTPValidity = jc.OTPValidity.Duration
	}
	if jc.OTPMaxAttempts != nil {
		cfg.OTPMaxAttempts = *jc.OTPMaxAttempts
	}
	if jc.CookieName != nil {
		cfg.CookieName = *jc.CookieName
	}
	if jc.CookieSecure != nil {
		cfg.CookieSecure = *jc.CookieSecure
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
