package gensession

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/yBATTE/gensession/storage"
)

func mintToken(t *testing.T, expUnix int64) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"sub": "user-1", "exp": expUnix})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

type recordingNavigator struct {
	mu      sync.Mutex
	current string
	visits  []string
}

func (n *recordingNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *recordingNavigator) To(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
	n.visits = append(n.visits, path)
}

func (n *recordingNavigator) Visits() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visits...)
}

// fakeBackend mimics the dashboard API: login issues a grant plus a refresh
// cookie, refresh exchanges that cookie, payments requires the bearer token.
type fakeBackend struct {
	t           *testing.T
	token       string
	refreshHits atomic.Int64
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{
		t:     t,
		token: mintToken(t, time.Now().Add(time.Hour).Unix()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "rt", Value: "refresh-1", Path: "/"})
		writeGrant(w, b.token, []string{"member"})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		b.refreshHits.Add(1)
		if c, err := r.Cookie("rt"); err != nil || c.Value != "refresh-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeGrant(w, b.token, []string{"member"})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/payments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func writeGrant(w http.ResponseWriter, token string, roles []string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"accessToken": token,
		"roles":       roles,
	})
}

func buildTestEngine(t *testing.T, baseURL string) (*Engine, *recordingNavigator) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.API.BaseURL = baseURL + "/api"

	nav := &recordingNavigator{current: "/"}
	engine, err := New().
		WithConfig(cfg).
		WithRepository(storage.NewMemory()).
		WithNavigator(nav).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, nav
}

func TestBuilderRequiresRepository(t *testing.T) {
	_, err := New().Build()
	if !errors.Is(err, ErrRepositoryRequired) {
		t.Fatalf("expected ErrRepositoryRequired, got %v", err)
	}
}

func TestBuilderRejectsReuse(t *testing.T) {
	b := New().WithRepository(storage.NewMemory())
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuilderReused) {
		t.Fatalf("expected ErrBuilderReused, got %v", err)
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = "not a url"

	if _, err := New().WithConfig(cfg).WithRepository(storage.NewMemory()).Build(); err == nil {
		t.Fatalf("expected config validation failure")
	}
}

func TestBuilderRedisRepositoryUsesConfiguredSlot(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	_, srv := newFakeBackend(t)
	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.URL + "/api"
	cfg.Session.StorageKey = "auth"

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if err := engine.Login(context.Background(), "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !mr.Exists("auth") {
		t.Fatalf("expected session slot under configured key")
	}
}

func TestEngineLoginLifecycle(t *testing.T) {
	_, srv := newFakeBackend(t)
	engine, _ := buildTestEngine(t, srv.URL)
	ctx := context.Background()

	if err := engine.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if engine.IsLoggedIn() {
		t.Fatalf("rejected login must not create a session")
	}

	if err := engine.Login(ctx, "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !engine.IsLoggedIn() {
		t.Fatalf("expected logged in after login")
	}
	if !engine.HasRole("member") || engine.HasRole("admin") {
		t.Fatalf("unexpected roles")
	}
	if d := engine.RequireAuth("/payments"); !d.Allow {
		t.Fatalf("expected RequireAuth allow, got %+v", d)
	}
	if d := engine.PublicOnly(""); d.Allow || d.RedirectTo != "/" {
		t.Fatalf("logged-in session must skip public-only content, got %+v", d)
	}

	resp, err := engine.HTTPClient().Get(srv.URL + "/api/payments")
	if err != nil {
		t.Fatalf("authorized call failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	engine.Logout(ctx)
	if engine.IsLoggedIn() {
		t.Fatalf("expected logged out after logout")
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricLoginSuccess] != 1 || snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("unexpected login counters: %+v", snap.Counters)
	}
	if snap.Counters[MetricLogout] != 1 {
		t.Fatalf("expected one logout, got %d", snap.Counters[MetricLogout])
	}
}

func TestEngineUnauthorizedCascade(t *testing.T) {
	_, srv := newFakeBackend(t)
	engine, nav := buildTestEngine(t, srv.URL)
	ctx := context.Background()

	if err := engine.Login(ctx, "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Invalidate the credential locally so the backend rejects it.
	engine.Store().Set(mintToken(t, time.Now().Add(2*time.Hour).Unix()), []string{"member"})

	resp, err := engine.HTTPClient().Get(srv.URL + "/api/payments")
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 to propagate, got %d", resp.StatusCode)
	}
	if engine.IsLoggedIn() {
		t.Fatalf("401 must clear the session")
	}
	if visits := nav.Visits(); len(visits) != 1 || visits[0] != "/login" {
		t.Fatalf("expected one visit to /login, got %v", visits)
	}
	if got := engine.MetricsSnapshot().Counters[MetricUnauthorizedResponse]; got != 1 {
		t.Fatalf("expected one unauthorized counter, got %d", got)
	}
}

func TestEngineBootstrapLoggedOut(t *testing.T) {
	_, srv := newFakeBackend(t)
	engine, _ := buildTestEngine(t, srv.URL)

	// Fresh client carries no refresh cookie, so the silent restore fails.
	outcome := engine.Bootstrap(context.Background())
	if outcome != BootstrapLoggedOut {
		t.Fatalf("expected logged_out, got %v", outcome)
	}
	if engine.IsLoggedIn() {
		t.Fatalf("failed restore must leave the session logged out")
	}
	if got := engine.MetricsSnapshot().Counters[MetricRenewalFailure]; got != 1 {
		t.Fatalf("expected one renewal failure, got %d", got)
	}
}

func TestEngineBootstrapRestoredViaSharedClient(t *testing.T) {
	backend, srv := newFakeBackend(t)
	first, _ := buildTestEngine(t, srv.URL)
	ctx := context.Background()

	if err := first.Login(ctx, "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A new engine sharing the cookie-carrying client restores silently,
	// the way a reloaded dashboard does.
	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.URL + "/api"
	second, err := New().
		WithConfig(cfg).
		WithRepository(storage.NewMemory()).
		WithHTTPClient(first.client.BackendClient()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(second.Close)

	if outcome := second.Bootstrap(ctx); outcome != BootstrapRestored {
		t.Fatalf("expected restored, got %v", outcome)
	}
	if !second.IsLoggedIn() || !second.HasRole("member") {
		t.Fatalf("restored session missing credential or roles")
	}

	// Bootstrap is one-shot: another call reports the same outcome without
	// touching the network again.
	hits := backend.refreshHits.Load()
	if outcome := second.Bootstrap(ctx); outcome != BootstrapRestored {
		t.Fatalf("expected recorded outcome, got %v", outcome)
	}
	if backend.refreshHits.Load() != hits {
		t.Fatalf("second Bootstrap must not hit the backend")
	}
	if got := second.MetricsSnapshot().Counters[MetricSessionRestored]; got != 1 {
		t.Fatalf("expected one restore counter, got %d", got)
	}
}

func TestEngineAuditEventsFlow(t *testing.T) {
	_, srv := newFakeBackend(t)

	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.URL + "/api"
	cfg.Audit.Enabled = true

	sink := NewChannelSink(16)
	engine, err := New().
		WithConfig(cfg).
		WithRepository(storage.NewMemory()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if err := engine.Login(context.Background(), "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	select {
	case ev := <-sink.Events():
		if ev.EventType != "login" || !ev.Success {
			t.Fatalf("unexpected audit event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for login audit event")
	}
}
