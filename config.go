package gensession

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by gensession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API       APIConfig
	Routes    RouteConfig
	Session   SessionConfig
	Bootstrap BootstrapConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by gensession APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	// BaseURL is the backend API root all paths are joined onto.
	BaseURL string

	RefreshPath string
	LoginPath   string
	LogoutPath  string

	// Timeout bounds every backend call.
	Timeout time.Duration
}

/*
====================================
ROUTE CONFIG
====================================
*/

// RouteConfig defines a public type used by gensession APIs.
//
// RouteConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RouteConfig struct {
	// Login is the public entry point guards and forced logouts redirect to.
	Login string

	// DefaultLanding is where PublicOnly sends a logged-in user when no
	// origin is known.
	DefaultLanding string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by gensession APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// StorageKey names the durable slot. Matches the web client's persisted
	// state key so a backend-for-frontend can share it.
	StorageKey string

	// PersistTTL bounds the slot lifetime where the repository supports it
	// (Redis). Zero persists without expiry.
	PersistTTL time.Duration
}

/*
====================================
BOOTSTRAP CONFIG
====================================
*/

// BootstrapConfig defines a public type used by gensession APIs.
//
// BootstrapConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BootstrapConfig struct {
	// FailsafeTimeout bounds how long the silent restore may withhold Ready.
	FailsafeTimeout time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by gensession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
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

// MetricsConfig defines a public type used by gensession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:     "http://localhost:3000/api",
			RefreshPath: "/auth/refresh",
			LoginPath:   "/auth/login",
			LogoutPath:  "/auth/logout",
			Timeout:     10 * time.Second,
		},
		Routes: RouteConfig{
			Login:          "/login",
			DefaultLanding: "/",
		},
		Session: SessionConfig{
			StorageKey: "auth",
		},
		Bootstrap: BootstrapConfig{
			FailsafeTimeout: 5 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func validateConfig(cfg Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q", cfg.API.BaseURL)
	}
	for name, p := range map[string]string{
		"refresh": cfg.API.RefreshPath,
		"login":   cfg.API.LoginPath,
		"logout":  cfg.API.LogoutPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s path must start with '/', got %q", name, p)
		}
	}
	if cfg.API.Timeout < 0 {
		return errors.New("invalid API timeout")
	}
	if !strings.HasPrefix(cfg.Routes.Login, "/") {
		return fmt.Errorf("login route must start with '/', got %q", cfg.Routes.Login)
	}
	if !strings.HasPrefix(cfg.Routes.DefaultLanding, "/") {
		return fmt.Errorf("default landing route must start with '/', got %q", cfg.Routes.DefaultLanding)
	}
	if cfg.Session.StorageKey == "" {
		return errors.New("storage key must not be empty")
	}
	if cfg.Session.PersistTTL < 0 {
		return errors.New("invalid persist TTL")
	}
	if cfg.Bootstrap.FailsafeTimeout <= 0 {
		return errors.New("invalid bootstrap failsafe timeout")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return errors.New("invalid audit buffer size")
	}
	return nil
}
