// Package guard gates protected commands behind a live token check.
// Token presence alone is not enough: the token in durable storage may
// have been revoked or expired since the last run.
package guard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/arashgl/darabctl/internal/api"
)

// State is the guard's lifecycle position
type State int

const (
	// Unverified is the initial state when a token is present but unchecked
	Unverified State = iota
	// Verifying means the verification round trip is in flight
	Verifying
	// Authorized means the backend confirmed the token
	Authorized
	// Unauthorized means no token existed or verification failed
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Unverified:
		return "unverified"
	case Verifying:
		return "verifying"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Verifier performs the token-verification round trip
type Verifier interface {
	Verify(ctx context.Context) error
}

// SessionAccess is the slice of the session store the guard needs
type SessionAccess interface {
	Token() string
	Clear() error
}

// Guard is scoped to a single command invocation. It never leaks state
// across instances: a cancelled check leaves this guard Unverified and
// affects nothing else.
type Guard struct {
	mu       sync.Mutex
	state    State
	verifier Verifier
	store    SessionAccess
	logger   *slog.Logger
}

// New creates a guard in the Unverified state
func New(verifier Verifier, store SessionAccess, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Guard{
		state:    Unverified,
		verifier: verifier,
		store:    store,
		logger:   logger,
	}
}

// State returns the current state
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Check runs the state machine once and returns the terminal state.
//
// No token short-circuits to Unauthorized without any network call.
// An authorization failure clears the local session and lands on
// Unauthorized. A transient failure (network, server) leaves the guard
// Unverified with the error returned, so the caller can retry without
// having been logged out by a flaky connection. Context cancellation
// also rolls back to Unverified and produces no session mutation.
func (g *Guard) Check(ctx context.Context) (State, error) {
	g.mu.Lock()
	if g.store.Token() == "" {
		g.state = Unauthorized
		g.mu.Unlock()
		return Unauthorized, nil
	}
	g.state = Verifying
	g.mu.Unlock()

	err := g.verifier.Verify(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	if err == nil {
		g.state = Authorized
		return Authorized, nil
	}

	if ctx.Err() != nil {
		g.state = Unverified
		return Unverified, ctx.Err()
	}

	switch api.ErrorKind(err) {
	case api.KindAuth, api.KindForbidden:
		g.logger.Debug("token verification rejected", "error", err)
		if clearErr := g.store.Clear(); clearErr != nil {
			g.logger.Debug("clearing session failed", "error", clearErr)
		}
		g.state = Unauthorized
		return Unauthorized, nil
	default:
		g.state = Unverified
		return Unverified, err
	}
}
