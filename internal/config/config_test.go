package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MD_BACKEND_URL", "https://api.example.org")
	setEnv(t, "MD_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/memberdesk.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/memberdesk.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.MembersPerPage != 10 {
		t.Errorf("MembersPerPage = %d, want 10", cfg.MembersPerPage)
	}
	if cfg.AuditRetentionDays != 90 {
		t.Errorf("AuditRetentionDays = %d, want 90", cfg.AuditRetentionDays)
	}
}

func TestLoad_MissingBackendURL(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MD_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without MD_BACKEND_URL")
	}
}

func TestLoad_InvalidBackendURL(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MD_BACKEND_URL", "not-a-url")
	setEnv(t, "MD_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a relative backend URL")
	}
}

func TestLoad_TrailingSlashTrimmed(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MD_BACKEND_URL", "https://api.example.org/")
	setEnv(t, "MD_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BackendURL != "https://api.example.org" {
		t.Errorf("BackendURL = %q, want trailing slash trimmed", cfg.BackendURL)
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MD_BACKEND_URL", "https://api.example.org")
	setEnv(t, "MD_SESSION_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject short session secret")
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MD_BACKEND_URL", "https://api.example.org")
	setEnv(t, "MD_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject known weak secret")
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := Config{Env: "development"}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false for development env")
	}

	cfg.Env = "production"
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production env")
	}
}

func TestServerAddr(t *testing.T) {
	cfg := Config{ServerHost: "localhost", ServerPort: 9000}
	if got := cfg.ServerAddr(); got != "localhost:9000" {
		t.Errorf("ServerAddr() = %q, want %q", got, "localhost:9000")
	}
}
