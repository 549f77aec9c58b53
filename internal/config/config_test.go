package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port default = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode default = %q", cfg.GinMode)
	}
	if cfg.AppEnv != "development" {
		t.Errorf("AppEnv default = %q", cfg.AppEnv)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath default = %q", cfg.APIBasePath)
	}
	if cfg.Auth.JWTSecret != DefaultJWTSecret {
		t.Errorf("JWTSecret default = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != 60*24*time.Hour {
		t.Errorf("TokenTTL default = %v; want 60 days", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.VerifyCacheTTL != time.Hour {
		t.Errorf("VerifyCacheTTL default = %v; want 1h", cfg.Auth.VerifyCacheTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("BcryptCost default = %d; want 10", cfg.Auth.BcryptCost)
	}
	if cfg.ScopedLikeDelete {
		t.Errorf("ScopedLikeDelete should default to false")
	}
	if cfg.SwaggerEnabled {
		t.Errorf("SwaggerEnabled should default to false")
	}
}

func TestLoad_EnvOverridesAndNormalization(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "weird") // falls back to release
	t.Setenv("APP_ENV", "prod")   // normalized to production
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("LOG_LEVEL", "WARNING") // normalized to warn
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("SCOPED_LIKE_DELETE", "yes")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.example ,http://b.example, ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("invalid GIN_MODE should fall back to release, got %q", cfg.GinMode)
	}
	if cfg.AppEnv != "production" {
		t.Errorf("AppEnv = %q; want production", cfg.AppEnv)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want warn", cfg.LogLevel)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.Auth.TokenTTL)
	}
	if !cfg.ScopedLikeDelete {
		t.Errorf("ScopedLikeDelete should be true")
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q; want /api/v2", cfg.APIBasePath)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != "http://a.example" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_RejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for default JWT_SECRET in production")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("error should name JWT_SECRET, got: %v", err)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := map[string][2]string{
		"bad log level":    {"LOG_LEVEL", "verbose"},
		"zero token ttl":   {"TOKEN_TTL", "0s"},
		"zero verify ttl":  {"VERIFY_CACHE_TTL", "0s"},
		"low bcrypt cost":  {"BCRYPT_COST", "2"},
		"high bcrypt cost": {"BCRYPT_COST", "40"},
		"zero rate burst":  {"RATE_BURST", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s should fail validation", kv[0], kv[1])
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "nope")
	defer func() {
		if recover() == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"api":      "/api",
		"/api/":    "/api",
		"/api/v1":  "/api/v1",
		" /api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("FLAG_A", "On")
	t.Setenv("FLAG_B", "off")
	t.Setenv("FLAG_C", "maybe")
	if !getbool("FLAG_A", false) {
		t.Errorf(`"On" should be true`)
	}
	if getbool("FLAG_B", true) {
		t.Errorf(`"off" should be false`)
	}
	if !getbool("FLAG_C", true) {
		t.Errorf("unparseable value should keep the default")
	}
}
