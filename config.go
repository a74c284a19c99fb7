package folioauth

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by folioauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Endpoint EndpointConfig
	Protect  ProtectConfig
	Routes   RoutesConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
ENDPOINT CONFIG
====================================
*/

// EndpointConfig locates the remote authentication endpoint.
//
// BaseURL is the admin API root (for example "https://api.example.com/api/admin").
// The three paths are resolved relative to it.
type EndpointConfig struct {
	BaseURL     string
	LoginPath   string // default "/login"
	LogoutPath  string // default "/logout"
	ProfilePath string // default "/profile"
	Timeout     time.Duration
}

/*
====================================
PROTECT CONFIG
====================================
*/

// ProtectConfig describes the protected API surface: outbound requests whose
// URL path falls under Prefix get a bearer credential attached and their
// authorization failures handled.
type ProtectConfig struct {
	Prefix string // default "/api/admin"
}

/*
====================================
ROUTES CONFIG
====================================
*/

// RoutesConfig names the view paths the middleware redirects to.
type RoutesConfig struct {
	Login   string // default "/admin/login"
	Landing string // default "/admin/dashboard"
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration a [Builder] starts from. Only
// Endpoint.BaseURL must be filled in before Build.
func DefaultConfig() Config {
	return Config{
		Endpoint: EndpointConfig{
			LoginPath:   "/login",
			LogoutPath:  "/logout",
			ProfilePath: "/profile",
			Timeout:     10 * time.Second,
		},
		Protect: ProtectConfig{
			Prefix: "/api/admin",
		},
		Routes: RoutesConfig{
			Login:   "/admin/login",
			Landing: "/admin/dashboard",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate checks the configuration for internal consistency. It is called
// by [Builder.Build]; direct callers only need it when assembling a Config
// by hand.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint.BaseURL) == "" {
		return errors.New("endpoint BaseURL required")
	}
	u, err := url.Parse(c.Endpoint.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("endpoint BaseURL must be an absolute URL")
	}
	for _, p := range []string{c.Endpoint.LoginPath, c.Endpoint.LogoutPath, c.Endpoint.ProfilePath} {
		if !strings.HasPrefix(p, "/") {
			return errors.New("endpoint paths must start with /")
		}
	}
	if c.Endpoint.Timeout < 0 {
		return errors.New("endpoint Timeout must not be negative")
	}
	if !strings.HasPrefix(c.Protect.Prefix, "/") {
		return errors.New("protected prefix must start with /")
	}
	if !strings.HasPrefix(c.Routes.Login, "/") || !strings.HasPrefix(c.Routes.Landing, "/") {
		return errors.New("route paths must start with /")
	}
	if c.Routes.Login == c.Routes.Landing {
		return errors.New("login and landing routes must differ")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit BufferSize must not be negative")
	}
	return nil
}
