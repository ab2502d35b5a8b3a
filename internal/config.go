package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	// AuthModeOpen disables the password gate entirely. This is a
	// deliberate "open" mode, not a lax empty-password comparison.
	AuthModeOpen = "open"
	// AuthModePassword requires the shared admin password.
	AuthModePassword = "password"
)

// Config represents the application configuration.
type Config struct {
	App  ApplicationConfig `yaml:"app"`
	Site SiteConfig        `yaml:"site"`
	Auth AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
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

// SiteConfig holds site paths and presentation settings.
//
// ContentHref is the link prefix used in entry hrefs and in the public
// list; detail files are written under ContentDir and served at
// "/<ContentHref>/".
type SiteConfig struct {
	Title                string `yaml:"title"`
	Note                 string `yaml:"note"`
	DataDir              string `yaml:"data_dir"`
	ContentDir           string `yaml:"content_dir"`
	ContentHref          string `yaml:"content_href"`
	DetailStylesheetHref string `yaml:"detail_stylesheet_href"`
	ListStylesheetHref   string `yaml:"list_stylesheet_href"`
	ListPageHref         string `yaml:"list_page_href"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.ContentHref, validation.Required),
		validation.Field(&c.ListPageHref, validation.Required),
	)
}

// AuthConfig holds admin authentication configuration.
//
// Mode controls how the admin screen is gated:
//   - "password" (default): the login form compares against Password,
//     which must be non-empty.
//   - "open": no password gate at all, suitable for local use only.
type AuthConfig struct {
	Mode       string `yaml:"mode"`
	Password   string `yaml:"password"`
	SessionKey string `yaml:"session_key"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "password".
	if c.Mode == "" {
		c.Mode = AuthModePassword
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeOpen, AuthModePassword)),
		validation.Field(&c.SessionKey, validation.Required),
	); err != nil {
		return err
	}
	if c.Mode == AuthModePassword && c.Password == "" {
		return fmt.Errorf("auth: mode is %q but password is empty", AuthModePassword)
	}
	return nil
}

// Open returns true when the admin screen has no password gate.
func (c *AuthConfig) Open() bool {
	return c.Mode == AuthModeOpen
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
		Site: SiteConfig{
			Title:                "デンビタロウの日記",
			Note:                 "その日の気分で、少しずつ。",
			DataDir:              "./data",
			ContentDir:           "./diary-contents",
			ContentHref:          "diary-contents",
			DetailStylesheetHref: "../css/diary-detail.css",
			ListStylesheetHref:   "css/diary-list.css",
			ListPageHref:         "/",
		},
		Auth: AuthConfig{
			Mode:       AuthModePassword,
			Password:   "0000",
			SessionKey: "nikki-session-key-change-me",
		},
	}
}
