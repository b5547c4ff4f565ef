package session

// Snapshot is an atomic view of the session. The three fields only ever
// change together: a credential replace rewrites all of them, a clear empties
// all of them.
type Snapshot struct {
	// AccessToken is the opaque bearer credential. Empty means absent.
	AccessToken string

	// Roles are the role tags issued with the credential.
	Roles []string

	// ExpiresAtMs is the credential expiry in epoch milliseconds, derived
	// from the token's exp claim. Zero means no expiry is known.
	ExpiresAtMs int64
}

// HasRole reports whether role is among the snapshot's role tags.
func (s Snapshot) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Roles != nil {
		out.Roles = append([]string(nil), s.Roles...)
	}
	return out
}
