package gensession

import (
	"errors"

	"github.com/yBATTE/gensession/api"
)

var (
	// ErrInvalidCredentials is an exported constant or variable used by the session engine.
	ErrInvalidCredentials = api.ErrInvalidCredentials
	// ErrLoginFailed is an exported constant or variable used by the session engine.
	ErrLoginFailed = api.ErrLoginFailed
	// ErrRenewalFailed is an exported constant or variable used by the session engine.
	ErrRenewalFailed = api.ErrRenewalFailed
	// ErrBuilderReused is an exported constant or variable used by the session engine.
	ErrBuilderReused = errors.New("builder already used")
	// ErrRepositoryRequired is an exported constant or variable used by the session engine.
	ErrRepositoryRequired = errors.New("nil repository")
)
