package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/yBATTE/gensession/api"
	"github.com/yBATTE/gensession/internal/clock"
	"github.com/yBATTE/gensession/session"
)

// Outcome classifies how the bootstrapper reached Ready.
type Outcome int

const (
	// OutcomeAlreadyActive: a credential was already in the store, no
	// network call was made.
	OutcomeAlreadyActive Outcome = iota
	// OutcomeRestored: the silent refresh produced a usable grant.
	OutcomeRestored
	// OutcomeLoggedOut: the refresh failed and the session was cleared.
	OutcomeLoggedOut
	// OutcomeTimeout: the failsafe fired before the refresh settled.
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyActive:
		return "already_active"
	case OutcomeRestored:
		return "restored"
	case OutcomeLoggedOut:
		return "logged_out"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Renewer is the silent-refresh dependency, satisfied by *api.Client.
type Renewer interface {
	Refresh(ctx context.Context) (api.TokenGrant, error)
}

// Bootstrapper is the one-shot restore state machine.
type Bootstrapper struct {
	store    *session.Store
	renewer  Renewer
	clk      clock.Clock
	failsafe time.Duration

	runOnce    sync.Once
	finishOnce sync.Once
	done       chan struct{}
	outcome    Outcome
}

// Options captures Bootstrapper dependencies.
type Options struct {
	// Store is populated or cleared by the restore attempt. Required.
	Store *session.Store

	// Renewer performs the silent refresh. Required.
	Renewer Renewer

	// Clock arms the failsafe timer. Defaults to the system clock.
	Clock clock.Clock

	// Failsafe bounds how long Ready can be withheld. Defaults to 5s.
	Failsafe time.Duration
}

// New builds a Bootstrapper from opts.
func New(opts Options) *Bootstrapper {
	clk := opts.Clock
	if clk == nil {
		clk = clock.System()
	}
	failsafe := opts.Failsafe
	if failsafe <= 0 {
		failsafe = 5 * time.Second
	}
	return &Bootstrapper{
		store:    opts.Store,
		renewer:  opts.Renewer,
		clk:      clk,
		failsafe: failsafe,
		done:     make(chan struct{}),
	}
}

// Run performs the restore attempt and blocks until Ready, then returns how
// Ready was reached. Only the first call does work; later calls return the
// recorded outcome immediately.
func (b *Bootstrapper) Run(ctx context.Context) Outcome {
	b.runOnce.Do(func() {
		if b.store.AccessToken() != "" {
			b.finish(OutcomeAlreadyActive)
			return
		}

		failsafe := b.clk.AfterFunc(b.failsafe, func() {
			// A hung renewal is treated as logged out, not as unknown.
			b.store.Clear()
			b.finish(OutcomeTimeout)
		})

		go func() {
			grant, err := b.renewer.Refresh(ctx)
			failsafe.Stop()
			// The losing path after a failsafe still applies its result:
			// Set and Clear are idempotent with respect to final state, and
			// only the first finisher decides the outcome.
			if err == nil && grant.AccessToken != "" {
				b.store.Set(grant.AccessToken, grant.Roles)
				b.finish(OutcomeRestored)
				return
			}
			b.store.Clear()
			b.finish(OutcomeLoggedOut)
		}()
	})

	<-b.done
	return b.outcome
}

// Done returns a channel closed once the bootstrapper is Ready.
func (b *Bootstrapper) Done() <-chan struct{} {
	return b.done
}

func (b *Bootstrapper) finish(o Outcome) {
	b.finishOnce.Do(func() {
		b.outcome = o
		close(b.done)
	})
}
