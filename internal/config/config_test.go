package config

import "testing"

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is empty")
	}
}

func TestLoadConfigAppliesDefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "5000")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("DEBUG", "yes")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ListenAddr() != "0.0.0.0:5000" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr())
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("expected development env, got %q", cfg.AppEnv)
	}
	if !cfg.Debug {
		t.Fatalf("expected debug to be enabled")
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected invalid REDIS_DB to fall back to 0, got %d", cfg.RedisDB)
	}
	if !cfg.PresenceUsesRedis() {
		t.Fatalf("expected redis presence when REDIS_ADDR is set")
	}
	if cfg.UploadDir != "" {
		t.Fatalf("expected explicit empty UPLOAD_DIR to be kept, got %q", cfg.UploadDir)
	}
}

func TestNormalizeEnv(t *testing.T) {
	cases := map[string]string{
		"prod":    "production",
		" Stage ": "staging",
		"testing": "test",
		"custom":  "custom",
	}
	for input, want := range cases {
		if got := normalizeEnv(input); got != want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", input, got, want)
		}
	}
}
