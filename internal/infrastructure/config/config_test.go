package config

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		App: AppConfig{Environment: "development"},
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host: "localhost",
			Name: "todolive",
		},
		JWT: JWTConfig{
			Secret:    "test-secret",
			ExpiresIn: 24 * time.Hour,
		},
		Live: LiveConfig{
			PingInterval: 30 * time.Second,
			PongTimeout:  60 * time.Second,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing database host", func(c *Config) { c.Database.Host = "" }, "database host"},
		{"missing database name", func(c *Config) { c.Database.Name = "" }, "database name"},
		{"missing jwt secret", func(c *Config) { c.JWT.Secret = "" }, "JWT secret"},
		{"default secret in production", func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = "change-me-before-deploying"
		}, "default value"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server port"},
		{"ping not shorter than pong", func(c *Config) {
			c.Live.PingInterval = time.Minute
			c.Live.PongTimeout = time.Minute
		}, "ping interval"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "pw",
		Name:     "todos",
		SSLMode:  "require",
	}

	dsn := cfg.GetDSN()
	for _, part := range []string{"host=db.internal", "port=5433", "user=app", "dbname=todos", "sslmode=require"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
}

func TestGetServerAddress(t *testing.T) {
	t.Parallel()

	cfg := validTestConfig()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 9090
	if got, want := cfg.GetServerAddress(), "0.0.0.0:9090"; got != want {
		t.Errorf("GetServerAddress() = %q, want %q", got, want)
	}
}

func TestGetRedisAddr(t *testing.T) {
	t.Parallel()

	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	if got, want := cfg.GetAddr(), "cache.internal:6380"; got != want {
		t.Errorf("GetAddr() = %q, want %q", got, want)
	}
}
