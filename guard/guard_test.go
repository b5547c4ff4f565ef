package guard

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/yBATTE/gensession/internal/clock"
	"github.com/yBATTE/gensession/session"
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

func newGuardStore(t *testing.T) (*session.Store, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Unix(1_700_000_000, 0))
	return session.NewStore(session.Options{Repository: storage.NewMemory(), Clock: clk}), clk
}

func TestRequireAuthRedirectsWhenLoggedOut(t *testing.T) {
	store, _ := newGuardStore(t)

	d := RequireAuth(store, "/payments/42", "/login")

	if d.Allow {
		t.Fatalf("logged-out session must not render protected content")
	}
	if d.RedirectTo != "/login" || d.From != "/payments/42" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestRequireAuthAllowsWhenLoggedIn(t *testing.T) {
	store, clk := newGuardStore(t)
	store.Set(mintToken(t, clk.Now().Add(time.Hour).Unix()), []string{"member"})

	if d := RequireAuth(store, "/payments/42", "/login"); !d.Allow {
		t.Fatalf("expected allow, got %+v", d)
	}
}

func TestRequireAuthTreatsExpiredAsLoggedOut(t *testing.T) {
	store, clk := newGuardStore(t)
	store.Set(mintToken(t, clk.Now().Add(time.Second).Unix()), []string{"member"})
	clk.Advance(2 * time.Second)

	if d := RequireAuth(store, "/tasks", "/login"); d.Allow {
		t.Fatalf("expired session must redirect")
	}
}

func TestPublicOnlyRedirectsLoggedInToOrigin(t *testing.T) {
	store, clk := newGuardStore(t)
	store.Set(mintToken(t, clk.Now().Add(time.Hour).Unix()), []string{"member"})

	d := PublicOnly(store, "/payments/42", "/")
	if d.Allow || d.RedirectTo != "/payments/42" {
		t.Fatalf("expected redirect back to origin, got %+v", d)
	}

	d = PublicOnly(store, "", "/")
	if d.Allow || d.RedirectTo != "/" {
		t.Fatalf("expected redirect to landing, got %+v", d)
	}
}

func TestPublicOnlyAllowsLoggedOut(t *testing.T) {
	store, _ := newGuardStore(t)

	if d := PublicOnly(store, "", "/"); !d.Allow {
		t.Fatalf("logged-out session must see public content, got %+v", d)
	}
}

func TestRoleGate(t *testing.T) {
	store, clk := newGuardStore(t)
	store.Set(mintToken(t, clk.Now().Add(time.Hour).Unix()), []string{"member"})

	if !RoleGate(store, "admin", "member") {
		t.Fatalf("expected anyOf match on member")
	}
	if RoleGate(store, "admin") {
		t.Fatalf("unexpected admin access")
	}
	if RoleGate(store) {
		t.Fatalf("empty anyOf must never pass")
	}
}
