package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != ":3000" {
		t.Fatalf("addr default = %q", c.Addr)
	}
	if c.DatabaseDriver != "sqlite" {
		t.Fatalf("driver default = %q", c.DatabaseDriver)
	}
	if c.LogLevel != "info" {
		t.Fatalf("log level default = %q", c.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PLACEFEED_ADDR", ":8081")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost/placefeed")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != ":8081" || c.RedisURL == "" || c.DatabaseDriver != "postgres" || c.DatabaseDSN == "" {
		t.Fatalf("env not applied: %+v", c)
	}
}
