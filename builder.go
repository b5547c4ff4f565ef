package gensession

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yBATTE/gensession/api"
	"github.com/yBATTE/gensession/bootstrap"
	"github.com/yBATTE/gensession/internal/clock"
	"github.com/yBATTE/gensession/session"
	"github.com/yBATTE/gensession/storage"
	"github.com/yBATTE/gensession/transport"
	"github.com/yBATTE/gensession/watch"
)

// Builder defines a public type used by gensession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	repo          session.Repository
	redis         redis.UniversalClient
	nav           Navigator
	clk           clock.Clock
	httpClient    *http.Client
	baseTransport http.RoundTripper
	auditSink     AuditSink
	logger        *zerolog.Logger

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRepository describes the withrepository operation and its observable behavior.
//
// WithRepository does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRepository(repo session.Repository) *Builder {
	b.repo = repo
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The slot key and TTL come from [SessionConfig]. An explicit repository set
// with [Builder.WithRepository] takes precedence.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithNavigator describes the withnavigator operation and its observable behavior.
//
// WithNavigator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.nav = nav
	return b
}

// WithClock describes the withclock operation and its observable behavior.
//
// WithClock does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithClock(clk clock.Clock) *Builder {
	b.clk = clk
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithBaseTransport describes the withbasetransport operation and its observable behavior.
//
// WithBaseTransport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseTransport(rt http.RoundTripper) *Builder {
	b.baseTransport = rt
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderReused
	}

	cfg := b.config

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	repo := b.repo
	if repo == nil && b.redis != nil {
		repo = storage.NewRedis(b.redis, cfg.Session.StorageKey, cfg.Session.PersistTTL)
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	nav := b.nav
	if nav == nil {
		nav = noopNavigator{}
	}
	clk := b.clk
	if clk == nil {
		clk = clock.System()
	}
	logger := zerolog.Nop()
	if b.logger != nil {
		logger = *b.logger
	}

	metrics := NewMetrics(cfg.Metrics)
	dispatcher := newAuditDispatcher(cfg.Audit, b.auditSink)

	e := &Engine{
		cfg:        cfg,
		nav:        nav,
		clk:        clk,
		metrics:    metrics,
		dispatcher: dispatcher,
		logger:     logger,
	}

	// -------- SESSION STORE --------
	e.store = session.NewStore(session.Options{
		Repository: repo,
		Clock:      clk,
		Warn: func(format string, args ...any) {
			metrics.Inc(MetricPersistFailure)
			logger.Warn().Msgf(format, args...)
		},
	})

	// -------- BACKEND CLIENT --------
	e.client = api.NewClient(api.Options{
		BaseURL:     cfg.API.BaseURL,
		RefreshPath: cfg.API.RefreshPath,
		LoginPath:   cfg.API.LoginPath,
		LogoutPath:  cfg.API.LogoutPath,
		HTTPClient:  b.httpClient,
		Timeout:     cfg.API.Timeout,
	})

	// -------- AUTHORIZING TRANSPORT --------
	authorizer := transport.NewAuthorizer(transport.Options{
		Base:       b.baseTransport,
		Store:      e.store,
		Navigator:  nav,
		LoginRoute: cfg.Routes.Login,
		OnUnauthorized: func() {
			metrics.Inc(MetricUnauthorizedResponse)
			e.audit("unauthorized_response", false, nil)
			logger.Info().Msg("unauthorized response, session cleared")
		},
	})
	e.httpClient = &http.Client{
		Transport: authorizer,
		Timeout:   cfg.API.Timeout,
	}

	// -------- BOOTSTRAPPER --------
	e.boot = bootstrap.New(bootstrap.Options{
		Store:    e.store,
		Renewer:  e.client,
		Clock:    clk,
		Failsafe: cfg.Bootstrap.FailsafeTimeout,
	})

	// -------- EXPIRY WATCHER --------
	e.watcher = watch.New(watch.Options{
		Store:      e.store,
		Clock:      clk,
		Navigator:  nav,
		LoginRoute: cfg.Routes.Login,
		OnExpired: func() {
			metrics.Inc(MetricSessionExpired)
			e.audit("session_expired", false, nil)
			logger.Info().Msg("session expired, forcing logout")
		},
	})

	b.built = true
	return e, nil
}
