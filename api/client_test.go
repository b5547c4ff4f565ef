package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		BaseURL:     srv.URL + "/api",
		RefreshPath: "/auth/refresh",
		LoginPath:   "/auth/login",
		LogoutPath:  "/auth/logout",
	})
}

func TestRefreshSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/refresh" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("refresh must not carry a bearer header")
		}
		json.NewEncoder(w).Encode(TokenGrant{AccessToken: "abc", Roles: []string{"member"}})
	}))

	grant, err := client.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if grant.AccessToken != "abc" || len(grant.Roles) != 1 || grant.Roles[0] != "member" {
		t.Fatalf("unexpected grant: %+v", grant)
	}
}

func TestRefreshFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-success status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}},
		{"missing access token", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"roles": []string{"member"}})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)
			if _, err := client.Refresh(context.Background()); !errors.Is(err, ErrRenewalFailed) {
				t.Fatalf("expected ErrRenewalFailed, got %v", err)
			}
		})
	}
}

func TestRefreshSingleFlight(t *testing.T) {
	var hits atomic.Int64
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		arrived <- struct{}{}
		<-release
		json.NewEncoder(w).Encode(TokenGrant{AccessToken: "abc", Roles: []string{"member"}})
	}))

	// The owner sets the in-flight marker before its request leaves, so once
	// the server has seen the request any further Refresh call must join it.
	var wg sync.WaitGroup
	wg.Add(1)
	grants := make(chan TokenGrant, 1)
	go func() {
		defer wg.Done()
		grant, err := client.Refresh(context.Background())
		if err != nil {
			t.Errorf("refresh: %v", err)
			return
		}
		grants <- grant
	}()
	<-arrived

	// A joiner whose context is already cancelled proves it waited on the
	// in-flight call instead of issuing its own request.
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Refresh(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected joined call to give up with context.Canceled, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("joiner must not issue its own request, got %d hits", got)
	}

	close(release)
	wg.Wait()
	close(grants)

	if got := hits.Load(); got != 1 {
		t.Fatalf("expected exactly one upstream refresh, got %d", got)
	}
	if grant := <-grants; grant.AccessToken != "abc" {
		t.Fatalf("owner received an unexpected grant: %+v", grant)
	}
}

func TestLoginCookieRidesRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if creds["email"] != "alice@example.com" || creds["password"] != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "rt", Value: "cookie-1", HttpOnly: true, Path: "/"})
		json.NewEncoder(w).Encode(TokenGrant{AccessToken: "tok-1", Roles: []string{"admin"}})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("rt"); err != nil || c.Value != "cookie-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(TokenGrant{AccessToken: "tok-2", Roles: []string{"admin"}})
	})
	client := newTestClient(t, mux)

	if _, err := client.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("login: %v", err)
	}
	grant, err := client.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh with session cookie: %v", err)
	}
	if grant.AccessToken != "tok-2" {
		t.Fatalf("unexpected refreshed token: %q", grant.AccessToken)
	}
}

func TestLoginRejections(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	if _, err := client.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	client = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	if _, err := client.Login(context.Background(), "alice@example.com", "pw"); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
}

func TestLogoutBestEffort(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	client = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	if err := client.Logout(context.Background()); err == nil {
		t.Fatalf("expected an error for the caller to log")
	}
}
