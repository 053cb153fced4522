// Package config loads runtime configuration for the EduPocket client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the school API
//	-d string   path to the local SQLite database file
//	-i int      online status check interval (seconds)
//	-f int      freshness re-check cooldown (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.school.example",
//	  "database_path": "edupocket.db",
//	  "online_check_interval": "3s",
//	  "freshness_cooldown": "30s",
//	  "request_timeout": "10s"
//	}
package config
