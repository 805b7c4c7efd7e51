package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "PLANTOPS_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "pkg", "crud")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("PLANTOPS_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("PLANTOPS_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func TestRateLimitOptions_Validate(t *testing.T) {
	ok := RateLimitOptions{GlobalRPS: 10, Storage: "memory"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []RateLimitOptions{
		{GlobalRPS: -1, Storage: "memory"},
		{GlobalRPS: 2000000, Storage: "memory"},
		{GlobalRPS: 10, Storage: "disk"},
		{GlobalRPS: 10, Storage: "redis"},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
}

func TestConfiguration_Validate(t *testing.T) {
	c := &Configuration{
		RateLimit:        RateLimitOptions{GlobalRPS: 1, Storage: "memory"},
		Auth:             AuthOptions{Required: true, Secret: "plantops-dev-secret", TokenTTL: time.Hour},
		GoAppEnvironment: Production,
	}
	if err := c.validate(); err == nil {
		t.Fatal("expected default secret to be rejected in production")
	}

	c.Auth.Secret = "s3cret"
	if err := c.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Auth.TokenTTL = 0
	if err := c.validate(); err == nil {
		t.Fatal("expected non-positive ttl to be rejected")
	}
}

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	d := DatabaseOptions{Name: "plantops", Host: "db", Port: "5433", User: "u", Password: "p"}
	want := "host=db port=5433 user=u dbname=plantops password=p sslmode=disable"
	if got := d.ConnectionString(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
