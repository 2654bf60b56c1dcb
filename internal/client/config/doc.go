// Package config loads runtime configuration for the paperkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are decoded as YAML, anything else as JSON.
//  3. Environment variables prefixed with PAPERKEEPER_. A .env file in the
//     working directory is loaded first when present.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the papers API
//	-p int      page size used for pagination and search
//	-r int      background refresh interval (seconds, 0 disables)
//	-d string   path of the local SQLite database
//
// # File schema
//
// Durations go through timex.Duration, so they can be strings like "90s" or
// integer nanoseconds:
//
//	{
//	  "server_base_url": "https://papers.example.com",
//	  "page_size": 10,
//	  "search_debounce": "500ms",
//	  "refresh_interval": "90s"
//	}
package config
