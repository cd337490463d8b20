// cliparse/cliparse_test.go
package cliparse

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testAdmin = "0x52908400098527886E0F7030069857D2E4169EE7"

// setRequiredEnv sets the minimum environment for ParseFlags to succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_TYPE", "NTP_SERVER", "NTP_INTERVAL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("ADMIN_ADDRESS", testAdmin)
	t.Setenv("PRINCIPAL_KEY_SALT", "test-salt")
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.AdminAddress.Hex() != testAdmin {
		t.Errorf("expected admin %s, got %s", testAdmin, cfg.AdminAddress.Hex())
	}
	if cfg.NTPServer != "" {
		t.Errorf("expected no NTP server, got %q", cfg.NTPServer)
	}
	if cfg.NTPInterval != time.Minute {
		t.Errorf("expected NTP interval 1m, got %s", cfg.NTPInterval)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("NTP_SERVER", "pool.ntp.org")
	t.Setenv("NTP_INTERVAL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.NTPServer != "pool.ntp.org" || cfg.NTPInterval != 30*time.Second {
		t.Errorf("unexpected NTP config %q %s", cfg.NTPServer, cfg.NTPInterval)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	other := "0x00000000000000000000000000000000000000aa"
	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:other.db", "-admin", other, "-key-salt", "s1", "-log-level", "warn"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:other.db" {
		t.Errorf("expected file:other.db, got %q", cfg.DatabaseURL)
	}
	if !strings.EqualFold(cfg.AdminAddress.Hex(), other) {
		t.Errorf("expected admin %s, got %s", other, cfg.AdminAddress.Hex())
	}
	if cfg.PrincipalKeySalt != "s1" {
		t.Errorf("expected salt s1, got %q", cfg.PrincipalKeySalt)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("expected warn level, got %s", cfg.LogLevel)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}, nil, "database URL required"},
		{"missing admin", map[string]string{"ADMIN_ADDRESS": ""}, nil, "ADMIN_ADDRESS required"},
		{"invalid admin", map[string]string{"ADMIN_ADDRESS": "alice"}, nil, "invalid ADMIN_ADDRESS"},
		{"missing salt", map[string]string{"PRINCIPAL_KEY_SALT": ""}, nil, "PRINCIPAL_KEY_SALT required"},
		{"invalid port", map[string]string{"PORT": "http"}, nil, "invalid PORT"},
		{"invalid database type", map[string]string{"DATABASE_TYPE": "mysql"}, nil, "unsupported database type"},
		{"invalid ntp interval", map[string]string{"NTP_INTERVAL": "often"}, nil, "invalid NTP_INTERVAL"},
		{"invalid log level", map[string]string{"LOG_LEVEL": "loud"}, nil, "invalid LOG_LEVEL"},
		{"unknown flag", nil, []string{"-x"}, "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PRINCIPAL_KEY_SALT=from-file\nNTP_SERVER=time.example.org\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ENV_FILE", path)
	t.Setenv("PRINCIPAL_KEY_SALT", "from-env")
	os.Unsetenv("NTP_SERVER")
	t.Cleanup(func() { os.Unsetenv("NTP_SERVER") })

	if err := LoadEnvFile(); err != nil {
		t.Fatal(err)
	}

	// Already-set variables are not overridden
	if got := os.Getenv("PRINCIPAL_KEY_SALT"); got != "from-env" {
		t.Errorf("PRINCIPAL_KEY_SALT = %q, want from-env", got)
	}
	if got := os.Getenv("NTP_SERVER"); got != "time.example.org" {
		t.Errorf("NTP_SERVER = %q, want time.example.org", got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	if err := LoadEnvFile(); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
