package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

const validConfig = `
campus:
  id: "test-campus"
  name: "Test Campus"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "0.0.0.0"
  port: 8080
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
  device_api_key: "device-key-001"
`

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Campus.ID != "test-campus" {
		t.Errorf("Campus.ID = %q, want %q", cfg.Campus.ID, "test-campus")
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.Security.DeviceAPIKey != "device-key-001" {
		t.Errorf("Security.DeviceAPIKey = %q, want %q", cfg.Security.DeviceAPIKey, "device-key-001")
	}
}

func TestLoad_PresenceDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.GetHeartbeatTTL(); got != 60*time.Second {
		t.Errorf("GetHeartbeatTTL() = %v, want 60s", got)
	}
	if got := cfg.GetCleanupInterval(); got != 30*time.Second {
		t.Errorf("GetCleanupInterval() = %v, want 30s", got)
	}
	if cfg.API.DebugEndpoints {
		t.Error("API.DebugEndpoints should default to false")
	}
}

func TestLoad_PresenceOverride(t *testing.T) {
	content := validConfig + `
presence:
  heartbeat_ttl: 120
  cleanup_interval: 15
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.GetHeartbeatTTL(); got != 120*time.Second {
		t.Errorf("GetHeartbeatTTL() = %v, want 120s", got)
	}
	if got := cfg.GetCleanupInterval(); got != 15*time.Second {
		t.Errorf("GetCleanupInterval() = %v, want 15s", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() should fail for missing file")
	}
}

func TestValidate_MissingJWTSecret(t *testing.T) {
	content := strings.Replace(validConfig, `secret: "test-secret-key-at-least-32-chars!"`, `secret: ""`, 1)
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() should fail without JWT secret")
	}
	if !strings.Contains(err.Error(), "security.jwt.secret") {
		t.Errorf("error %q should mention security.jwt.secret", err)
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	content := strings.Replace(validConfig, "test-secret-key-at-least-32-chars!", "short", 1)
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("Load() should reject short JWT secrets")
	}
}

func TestValidate_MissingDeviceAPIKey(t *testing.T) {
	content := strings.Replace(validConfig, `device_api_key: "device-key-001"`, `device_api_key: ""`, 1)
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() should fail without device API key")
	}
	if !strings.Contains(err.Error(), "device_api_key") {
		t.Errorf("error %q should mention device_api_key", err)
	}
}

func TestValidate_InvalidPresence(t *testing.T) {
	content := validConfig + `
presence:
  heartbeat_ttl: 0
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("Load() should reject zero heartbeat_ttl")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ROLLCALL_DATABASE_PATH", "/env/override.db")
	t.Setenv("ROLLCALL_JWT_SECRET", "env-secret-key-at-least-32-chars-long!")
	t.Setenv("ROLLCALL_DEVICE_API_KEY", "env-device-key")
	t.Setenv("ROLLCALL_API_PORT", "9090")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/env/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Security.JWT.Secret != "env-secret-key-at-least-32-chars-long!" {
		t.Error("JWT secret env override not applied")
	}
	if cfg.Security.DeviceAPIKey != "env-device-key" {
		t.Error("device API key env override not applied")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
}
