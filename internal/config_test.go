package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/adfbridge/internal/sse"
	pkgconfig "github.com/starford/adfbridge/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if !cfg.Workspace.Watch {
		t.Error("watch should default to true")
	}
}

func TestConvertConfig_Limits(t *testing.T) {
	cases := []struct {
		in      int64
		want    int64
		wantErr bool
	}{
		{0, DefaultBodyBytes, false},
		{MinBodyBytes, MinBodyBytes, false},
		{MaxBodyBytes, MaxBodyBytes, false},
		{100, 100, true},
		{MaxBodyBytes + 1, MaxBodyBytes + 1, true},
	}
	for _, c := range cases {
		cfg := ConvertConfig{MaxBodyBytes: c.in}
		err := cfg.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("Validate(%d) err = %v, wantErr %v", c.in, err, c.wantErr)
		}
		if cfg.MaxBodyBytes != c.want {
			t.Errorf("Validate(%d) left %d, want %d", c.in, cfg.MaxBodyBytes, c.want)
		}
	}
}

func TestWorkspaceConfig_PathRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Workspace.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty workspace path should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	t.Setenv("ADFBRIDGE_TEST_TOKEN", "from-env")
	yml := `app:
  log_level: debug
  http:
    port: 9090
workspace:
  path: ` + dir + `
  watch: false
sqlite:
  path: ` + filepath.Join(dir, "x.db") + `
auth:
  mode: token
  token: ${ADFBRIDGE_TEST_TOKEN}
events:
  dedupe: 250ms
  keep_alive: ${ADFBRIDGE_TEST_KEEPALIVE:-0s}
`
	if err := os.WriteFile(file, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(file, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Workspace.Watch {
		t.Error("watch should be false from file")
	}
	if cfg.Auth.Token != "from-env" {
		t.Errorf("token = %q, want env expansion", cfg.Auth.Token)
	}
	if cfg.Convert.MaxBodyBytes != DefaultBodyBytes {
		t.Errorf("max body = %d", cfg.Convert.MaxBodyBytes)
	}
	if cfg.Events.Dedupe != 250*time.Millisecond || cfg.Events.KeepAlive != 0 {
		t.Errorf("events = %+v", cfg.Events)
	}
}

func TestDefaultConfig_EventsMatchBroker(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Events.Dedupe != sse.DefaultDedupe || cfg.Events.KeepAlive != sse.DefaultKeepAlive {
		t.Errorf("events = %+v, want broker defaults", cfg.Events)
	}
}

func TestEventsConfig_Limits(t *testing.T) {
	cases := []struct {
		cfg   EventsConfig
		valid bool
	}{
		{EventsConfig{}, true},
		{EventsConfig{Dedupe: time.Second, KeepAlive: 30 * time.Second}, true},
		{EventsConfig{Dedupe: -time.Second}, false},
		{EventsConfig{Dedupe: 2 * time.Minute}, false},
		{EventsConfig{KeepAlive: -1}, false},
	}
	for _, c := range cases {
		err := c.cfg.Validate()
		if (err == nil) != c.valid {
			t.Errorf("Validate(%+v) err = %v, valid want %v", c.cfg, err, c.valid)
		}
	}
}
