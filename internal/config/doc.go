// Package config handles configuration loading for solvedbot.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file, with environment variable
// expansion inside the file and SOLVEDBOT_* variables overriding file values.
// Anything not set falls back to Default().
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from SOLVEDBOT_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/solvedbot/config.yaml
//  3. ~/.config/solvedbot/config.yaml
//
// A file whose name ends in .toml is decoded as TOML.
//
// # Environment Variable Expansion
//
//	database:
//	  path: "${HOME}/.local/share/solvedbot/db.sqlite3"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Environment Overrides
//
//	SOLVEDBOT_DATABASE_PATH         database.path
//	SOLVEDBOT_DATABASE_DRIVER       database.driver
//	SOLVEDBOT_ENFORCE_FOREIGN_KEYS  database.enforce_foreign_keys
//	SOLVEDBOT_BUSY_TIMEOUT          database.busy_timeout
//	SOLVEDBOT_LOG_LEVEL             logging.level
//	SOLVEDBOT_LOG_FORMAT            logging.format
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "db.sqlite3"
//	  driver: "sqlite"              # sqlite (pure Go) or sqlite3 (cgo)
//	  enforce_foreign_keys: false
//	  busy_timeout: "5s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
