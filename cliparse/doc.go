// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnvFile reads a .env file, then ParseFlags returns a Config struct with
all settings:

	if err := cliparse.LoadEnvFile(); err != nil { ... }
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string or SQLite path (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminAddress: Election administrator (required)
  - PrincipalKeySalt: Secret for principal key HMAC (required)
  - NTPServer: NTP server for the deadline clock (optional)
  - NTPInterval: NTP sync interval (default: 1m)
  - LogLevel: slog level (default: info)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-admin         Administrator address
	-key-salt      Principal key salt
	-ntp           NTP server
	-ntp-interval  NTP sync interval
	-log-level     Log level

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	ADMIN_ADDRESS      → -admin
	PRINCIPAL_KEY_SALT → -key-salt
	NTP_SERVER         → -ntp
	NTP_INTERVAL       → -ntp-interval
	LOG_LEVEL          → -log-level

CLI flags take precedence over environment variables, which take precedence
over the .env file (ENV_FILE overrides its path).

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - ADMIN_ADDRESS must be a valid, non-zero address
  - PRINCIPAL_KEY_SALT must be provided
*/
package cliparse
