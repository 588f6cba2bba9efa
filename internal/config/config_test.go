package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validSecret = "0123456789abcdef0123"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"QUIZ_CONFIG", "SERVER_HOST", "SERVER_PORT", "REQUEST_TIMEOUT",
		"DATABASE_DSN", "DATABASE_MAX_CONNS", "DATABASE_MIN_CONNS", "MIGRATIONS_DIR",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
		"JWT_SECRET_KEY", "TOKEN_TTL", "BCRYPT_COST", "REVOCATION_SWEEP_INTERVAL", "LOG_LEVEL",
	} {
		if v, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, v) })
		}
	}
}

func TestLoad_DefaultsWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", validSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("ttl = %s, want 2h", cfg.Auth.TokenTTL)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.SlogLevel())
	}
	if cfg.Query.SkillAliases["js"] != "JavaScript" {
		t.Errorf("default aliases missing: %v", cfg.Query.SkillAliases)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
  request_timeout: 30s
auth:
  jwt_secret: yaml-secret-0123456789
  bcrypt_cost: 6
query:
  skill_aliases:
    go: Go
    py: Python
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVER_PORT", "7001")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7001 {
		t.Errorf("env should override file: port = %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("request timeout = %s", cfg.Server.RequestTimeout)
	}
	if cfg.Auth.JWTSecret != "yaml-secret-0123456789" || cfg.Auth.BcryptCost != 6 {
		t.Errorf("auth from file not applied: %+v", cfg.Auth)
	}
	if len(cfg.Query.SkillAliases) != 2 || cfg.Query.SkillAliases["py"] != "Python" {
		t.Errorf("file aliases should replace defaults: %v", cfg.Query.SkillAliases)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("unset fields keep defaults: max conns = %d", cfg.Database.MaxConns)
	}
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "quiz.yaml")
	if err := os.WriteFile(path, []byte("auth:\n  jwt_secret: env-path-secret-0123\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUIZ_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-path-secret-0123" {
		t.Errorf("secret = %q", cfg.Auth.JWTSecret)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Defaults()
		cfg.Auth.JWTSecret = validSecret
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database DSN"},
		{"pool bounds", func(c *Config) { c.Database.MinConns = 30 }, "pool bounds"},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt secret is required"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "at least"},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "token ttl"},
		{"low bcrypt cost", func(c *Config) { c.Auth.BcryptCost = 1 }, "bcrypt cost"},
		{"high bcrypt cost", func(c *Config) { c.Auth.BcryptCost = 40 }, "bcrypt cost"},
		{"reserved alias", func(c *Config) { c.Query.SkillAliases["others"] = "Misc" }, "skill aliases"},
		{"duplicate canonical", func(c *Config) { c.Query.SkillAliases["javascript"] = "JavaScript" }, "skill aliases"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaults_DoNotShareAliasMap(t *testing.T) {
	a := Defaults()
	a.Query.SkillAliases["go"] = "Go"

	b := Defaults()
	if _, ok := b.Query.SkillAliases["go"]; ok {
		t.Fatal("Defaults returned a shared alias map")
	}
}
