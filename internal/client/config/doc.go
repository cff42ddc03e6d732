// Package config loads runtime configuration for the arestate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST backend
//	-d string   path of the local SQLite database
//	-l string   log level (debug, info, warn, error)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds. Absent keys keep their previous value:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "database_path": "arestate.db",
//	  "log_level": "warn",
//	  "online_check_interval": "5s"
//	}
package config
