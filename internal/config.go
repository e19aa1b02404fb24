package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/adfbridge/internal/sse"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Request body limits for the conversion API.
const (
	MinBodyBytes     = 1 << 10
	MaxBodyBytes     = 64 << 20
	DefaultBodyBytes = 10 << 20
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Workspace WorkspaceConfig   `yaml:"workspace"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
	Convert   ConvertConfig     `yaml:"convert"`
	Events    EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Workspace.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Convert.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// WorkspaceConfig holds the directory of source documents.
type WorkspaceConfig struct {
	Path string `yaml:"path"`
	// Watch enables the fsnotify watcher that reconverts documents on change.
	Watch bool `yaml:"watch"`
}

// Validate validates the workspace configuration.
func (c *WorkspaceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ConvertConfig holds limits for the conversion endpoints.
type ConvertConfig struct {
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Validate validates the convert configuration. A zero limit takes the default.
func (c *ConvertConfig) Validate() error {
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultBodyBytes
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxBodyBytes, validation.Min(int64(MinBodyBytes)), validation.Max(int64(MaxBodyBytes))),
	)
}

// EventsConfig tunes the SSE stream at /api/events.
type EventsConfig struct {
	// Dedupe drops repeated events for the same document within the window;
	// 0 disables deduplication.
	Dedupe time.Duration `yaml:"dedupe"`
	// KeepAlive is the interval of comment pings on idle streams; 0 disables.
	KeepAlive time.Duration `yaml:"keep_alive"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dedupe, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
		validation.Field(&c.KeepAlive, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Workspace: WorkspaceConfig{
			Path:  "./workspace",
			Watch: true,
		},
		SQLite: SQLiteConfig{
			Path: "./adfbridge.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Convert: ConvertConfig{
			MaxBodyBytes: DefaultBodyBytes,
		},
		Events: EventsConfig{
			Dedupe:    sse.DefaultDedupe,
			KeepAlive: sse.DefaultKeepAlive,
		},
	}
}
