package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "YOUTUBE_API_KEY", "TUBESHELF_DATA_DIR", "TUBESHELF_MAX_RESULTS", "EMAIL_USERNAME", "EMAIL_PASSWORD"} {
		t.Setenv(k, "")
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Library.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", cfg.Library.MaxResults)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.Path != "data" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Sync.PageDelay != 100*time.Millisecond {
		t.Errorf("PageDelay = %v, want 100ms", cfg.Sync.PageDelay)
	}
	if cfg.Sync.ChannelDelay != 200*time.Millisecond {
		t.Errorf("ChannelDelay = %v, want 200ms", cfg.Sync.ChannelDelay)
	}
	if cfg.Sync.Pacing != PacingFixed {
		t.Errorf("Pacing = %q", cfg.Sync.Pacing)
	}
}

func TestLoadFileYAMLAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "env-client")
	t.Setenv("YOUTUBE_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "tubeshelf.yaml")
	yaml := `
youtube:
  api_key: file-key
library:
  max_results: 25
storage:
  backend: sqlite
  path: /tmp/shelf
sync:
  page_delay: 250ms
  pacing: token_bucket
schedule: "0 */30 * * * *"
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.YouTube.APIKey != "file-key" {
		t.Errorf("file value should win over env: APIKey = %q", cfg.YouTube.APIKey)
	}
	if cfg.YouTube.ClientID != "env-client" {
		t.Errorf("env should fill empty field: ClientID = %q", cfg.YouTube.ClientID)
	}
	if cfg.Library.MaxResults != 25 {
		t.Errorf("MaxResults = %d", cfg.Library.MaxResults)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Path != "/tmp/shelf" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Sync.PageDelay != 250*time.Millisecond {
		t.Errorf("PageDelay = %v", cfg.Sync.PageDelay)
	}
	if cfg.Sync.ChannelDelay != 200*time.Millisecond {
		t.Errorf("ChannelDelay default not applied: %v", cfg.Sync.ChannelDelay)
	}
	if cfg.Schedule != "0 */30 * * * *" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{"MaxResults too large", "library:\n  max_results: 51\n", "max_results"},
		{"Unknown backend", "storage:\n  backend: redis\n", "storage.backend"},
		{"Unknown pacing", "sync:\n  pacing: jitter\n", "sync.pacing"},
		{"Negative delay", "sync:\n  page_delay: -1s\n", "delays"},
		{"Bad port", "monitoring:\n  health_port: 70000\n", "health_port"},
		{"Bad SMTP port", "email:\n  smtp_port: -2\n", "smtp_port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0600); err != nil {
				t.Fatal(err)
			}

			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("youtube: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFileEmail(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_USERNAME", "me@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")

	path := filepath.Join(t.TempDir(), "tubeshelf.yaml")
	yaml := "email:\n  smtp_server: smtp.example.com\n  to_email: inbox@example.com\n"
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !cfg.Email.Enabled() {
		t.Error("email should be enabled with a server and recipient")
	}
	if cfg.Email.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.Email.SMTPPort)
	}
	if cfg.Email.Password != "app-password" {
		t.Errorf("Password not read from env")
	}
	if cfg.Email.FromEmail != "me@example.com" {
		t.Errorf("FromEmail = %q, want the username", cfg.Email.FromEmail)
	}

	if Default().Email.Enabled() {
		t.Error("email should be disabled by default")
	}
}
