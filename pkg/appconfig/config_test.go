package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nzbgetcom/webconf/pkg/schema"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Expected defaults (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webconf.conf")
	content := `# local overrides
source=rpc
DaemonURL=http://nas:6789
DaemonTimeout=5
AutoReload=yes
APIPort=8080
EnableSwagger=yes
AllowedOrigins=http://a, http://b
RateLimit=20
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Daemon.Source != "rpc" || cfg.Daemon.URL != "http://nas:6789" {
		t.Errorf("Unexpected daemon config: %+v", cfg.Daemon)
	}
	if cfg.Daemon.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Daemon.Timeout)
	}
	if !cfg.Daemon.AutoReload || cfg.Daemon.ReloadTimeout != DefaultReloadTimeout {
		t.Errorf("Unexpected reload settings: %+v", cfg.Daemon)
	}
	if cfg.API.Port != 8080 || !cfg.API.EnableSwagger {
		t.Errorf("Unexpected API config: %+v", cfg.API)
	}
	if diff := cmp.Diff([]string{"http://a", "http://b"}, cfg.API.AllowedOrigins); diff != "" {
		t.Errorf("Origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.RateLimit.RequestsPerMinute != 20 || cfg.RateLimit.Burst != 20 {
		t.Errorf("Expected burst to follow the rate, got %+v", cfg.RateLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestFromValuesInvalid(t *testing.T) {
	_, err := FromValues([]schema.Value{
		{Name: "APIPort", Value: "eighty"},
		{Name: "EnableCORS", Value: "maybe"},
	})
	if err == nil {
		t.Fatal("Expected an error for malformed values")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad source", func(c *Config) { c.Daemon.Source = "ftp" }},
		{"bad port", func(c *Config) { c.API.Port = 70000 }},
		{"half credentials", func(c *Config) { c.API.Username = "admin" }},
		{"no snapshots", func(c *Config) { c.Snapshot.Keep = 0 }},
		{"no reload timeout", func(c *Config) { c.Daemon.AutoReload, c.Daemon.ReloadTimeout = true, 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Defaults must validate: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestCreateDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "webconf.conf")
	if err := CreateDefaultConfig(path); err != nil {
		t.Fatalf("CreateDefaultConfig failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema(t *testing.T) {
	set := DefaultConfig().Schema()

	if len(set.Sections) != 1 || set.Sections[0].Name != SectionName {
		t.Fatalf("Expected a single %s section", SectionName)
	}

	source, _ := set.FindOption("Source")
	if source == nil || source.Kind() != schema.KindSwitch {
		t.Fatalf("Expected Source to be a switch, got %+v", source)
	}
	if diff := cmp.Diff([]string{"file", "rpc"}, source.Choices); diff != "" {
		t.Errorf("Choices mismatch (-want +got):\n%s", diff)
	}
	if source.Value == nil || *source.Value != "file" {
		t.Errorf("Expected merged value file, got %v", source.Value)
	}

	port, _ := set.FindOption("APIPort")
	if port.Kind() != schema.KindNumeric {
		t.Errorf("Expected APIPort to be numeric, got %s", port.Kind())
	}
	if err := port.Validate("70000"); err == nil {
		t.Error("Expected out-of-range port to be rejected")
	}

	password, _ := set.FindOption("DaemonPassword")
	if password.Kind() != schema.KindPassword {
		t.Errorf("Expected DaemonPassword to be a password, got %s", password.Kind())
	}
}
