package token

import (
	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// ExpiryMs returns the token's embedded exp claim as epoch milliseconds.
// The second return is false when raw is empty, structurally malformed
// (wrong segment count, invalid base64url, non-JSON payload), or the payload
// lacks a numeric exp claim. ExpiryMs never panics and performs no signature
// verification.
func ExpiryMs(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return 0, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return exp.UnixMilli(), true
}
