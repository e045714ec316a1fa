package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ALLOWED_ORIGIN", "DATABASE_URL", "REDIS_ADDR",
		"MEDSTORE_DB_PATH", "MEDSTORE_EPHEMERAL", "ACCESS_TOKEN_TTL_MINUTES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Address())
	}
	if cfg.SQLitePath != "medstore.db" {
		t.Fatalf("expected default sqlite path, got %s", cfg.SQLitePath)
	}
	if cfg.Ephemeral {
		t.Fatalf("ephemeral must default off")
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected default ttl 480, got %d", cfg.AccessTokenTTLMinutes)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MEDSTORE_EPHEMERAL", "1")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "not-a-number")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.Ephemeral {
		t.Fatalf("expected ephemeral on")
	}
	if cfg.RedisAddr != "127.0.0.1:6379" || cfg.RedisDB != 3 {
		t.Fatalf("redis config wrong: %s db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	// Unparseable TTL falls back to the default.
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected ttl fallback 480, got %d", cfg.AccessTokenTTLMinutes)
	}
}
