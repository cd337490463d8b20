// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	DatabaseURL      string
	DatabaseType     string
	AdminAddress     common.Address
	PrincipalKeySalt string
	NTPServer        string
	NTPInterval      time.Duration
	LogLevel         slog.Level
}

// LoadEnvFile loads ENV_FILE (default .env) into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var admin, ntpInterval, logLevel string

	fs := flag.NewFlagSet("quickly-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Election
	fs.StringVar(&admin, "admin", "", "Administrator address (0x-prefixed hex)")
	fs.StringVar(&cfg.PrincipalKeySalt, "key-salt", "", "Principal key salt (prefer env)")

	// Clock and logging
	fs.StringVar(&cfg.NTPServer, "ntp", "", "NTP server for deadline clock (empty uses system clock)")
	fs.StringVar(&ntpInterval, "ntp-interval", "", "NTP sync interval")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if admin == "" {
		admin = os.Getenv("ADMIN_ADDRESS")
	}
	if admin == "" {
		return Config{}, errors.New("ADMIN_ADDRESS required (use -admin or ADMIN_ADDRESS env)")
	}
	addr, err := auth.ParseAddress(admin)
	if err != nil {
		return Config{}, fmt.Errorf("invalid ADMIN_ADDRESS %q: %w", admin, err)
	}
	cfg.AdminAddress = addr

	// Secrets - MUST be provided
	if cfg.PrincipalKeySalt == "" {
		cfg.PrincipalKeySalt = os.Getenv("PRINCIPAL_KEY_SALT")
	}
	if cfg.PrincipalKeySalt == "" {
		return Config{}, errors.New("PRINCIPAL_KEY_SALT required")
	}

	if cfg.NTPServer == "" {
		cfg.NTPServer = os.Getenv("NTP_SERVER")
	}

	if ntpInterval == "" {
		ntpInterval = os.Getenv("NTP_INTERVAL")
	}
	cfg.NTPInterval = time.Minute
	if ntpInterval != "" {
		d, err := time.ParseDuration(ntpInterval)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid NTP_INTERVAL %q", ntpInterval)
		}
		cfg.NTPInterval = d
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL %q", logLevel)
		}
	}

	return cfg, nil
}
