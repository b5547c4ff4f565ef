// Command gensession-probe exercises a dashboard backend's auth lifecycle
// from the command line: bootstrap, optional login, one authorized request,
// then a metrics dump.
//
// Configuration comes from flags, falling back to a .env file / environment
// (GENSESSION_BASE_URL, GENSESSION_EMAIL, GENSESSION_PASSWORD). The session
// slot persists in a local SQLite file, so a second run with the same slot
// starts from the previous session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	gensession "github.com/yBATTE/gensession"
	"github.com/yBATTE/gensession/metrics/export/prometheus"
	"github.com/yBATTE/gensession/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		baseURL  = flag.String("base-url", envOr("GENSESSION_BASE_URL", "http://localhost:3000/api"), "backend API base URL")
		email    = flag.String("email", os.Getenv("GENSESSION_EMAIL"), "login email; empty skips the login step")
		password = flag.String("password", os.Getenv("GENSESSION_PASSWORD"), "login password")
		probe    = flag.String("probe", "/payments", "authorized GET path to probe after login")
		slotPath = flag.String("slot", "gensession-probe.db", "SQLite file holding the session slot")
		slotName = flag.String("slot-name", "auth", "slot name inside the SQLite file")
		timeout  = flag.Duration("timeout", 10*time.Second, "per-request timeout")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	slot, err := storage.NewSQLite(*slotPath, *slotName)
	if err != nil {
		logger.Fatal().Err(err).Msg("open session slot")
	}
	defer slot.Close()

	cfg := gensession.DefaultConfig()
	cfg.API.BaseURL = *baseURL
	cfg.API.Timeout = *timeout

	engine, err := gensession.New().
		WithConfig(cfg).
		WithRepository(slot).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Fatal().Err(err).Msg("engine build")
	}
	defer engine.Close()

	ctx := context.Background()

	outcome := engine.Bootstrap(ctx)
	logger.Info().Str("outcome", outcome.String()).Msg("bootstrap")

	if !engine.IsLoggedIn() && *email != "" {
		if err := engine.Login(ctx, *email, *password); err != nil {
			logger.Fatal().Err(err).Msg("login")
		}
		logger.Info().Msg("login ok")
	}

	if engine.IsLoggedIn() {
		resp, err := engine.HTTPClient().Get(*baseURL + *probe)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *probe).Msg("probe request")
		}
		resp.Body.Close()
		logger.Info().Str("path", *probe).Str("status", resp.Status).Msg("probe")
	} else {
		logger.Warn().Msg("no session; skipping probe")
	}

	fmt.Print(prometheus.NewPrometheusExporter(engine).Render())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
