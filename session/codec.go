package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The persisted envelope is versioned so the format can evolve without
// breaking rehydration of older slots. The field names match the web
// client's persisted state, so a backend-for-frontend can share the slot.
const envelopeVersion = 1

type persistedState struct {
	AccessToken string   `json:"accessToken"`
	Roles       []string `json:"roles"`
	TokenExpMs  int64    `json:"tokenExpMs"`
}

type envelope struct {
	Version int            `json:"version"`
	State   persistedState `json:"state"`
}

var errEnvelopeVersion = errors.New("unsupported envelope version")

func encodeSnapshot(s Snapshot) ([]byte, error) {
	roles := s.Roles
	if roles == nil {
		roles = []string{}
	}
	return json.Marshal(envelope{
		Version: envelopeVersion,
		State: persistedState{
			AccessToken: s.AccessToken,
			Roles:       roles,
			TokenExpMs:  s.ExpiresAtMs,
		},
	})
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Snapshot{}, fmt.Errorf("decode session envelope: %w", err)
	}
	if env.Version != envelopeVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", errEnvelopeVersion, env.Version)
	}
	return Snapshot{
		AccessToken: env.State.AccessToken,
		Roles:       env.State.Roles,
		ExpiresAtMs: env.State.TokenExpMs,
	}, nil
}
