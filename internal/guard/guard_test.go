package guard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arashgl/darabctl/internal/api"
)

type fakeVerifier struct {
	calls atomic.Int64
	err   error
	block chan struct{}
}

func (f *fakeVerifier) Verify(ctx context.Context) error {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return &api.APIError{Kind: api.KindNetwork, Message: ctx.Err().Error()}
		}
	}
	return f.err
}

type fakeSession struct {
	token   string
	cleared bool
}

func (f *fakeSession) Token() string { return f.token }
func (f *fakeSession) Clear() error {
	f.token = ""
	f.cleared = true
	return nil
}

func TestGuard_NoTokenSkipsNetwork(t *testing.T) {
	verifier := &fakeVerifier{}
	g := New(verifier, &fakeSession{}, nil)

	state, err := g.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Unauthorized, state)
	assert.Equal(t, int64(0), verifier.calls.Load(), "no verify round trip without a token")
}

func TestGuard_ValidTokenAuthorized(t *testing.T) {
	g := New(&fakeVerifier{}, &fakeSession{token: "tok1"}, nil)

	state, err := g.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Authorized, state)
	assert.Equal(t, Authorized, g.State())
}

func TestGuard_RejectedTokenClearsSession(t *testing.T) {
	sess := &fakeSession{token: "stale"}
	verifier := &fakeVerifier{err: &api.APIError{Status: 401, Kind: api.KindAuth, Message: "expired"}}
	g := New(verifier, sess, nil)

	state, err := g.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Unauthorized, state)
	assert.True(t, sess.cleared, "rejected token must not linger in storage")
}

func TestGuard_TransientFailureKeepsSession(t *testing.T) {
	sess := &fakeSession{token: "tok1"}
	verifier := &fakeVerifier{err: &api.APIError{Kind: api.KindNetwork, Message: "connection refused"}}
	g := New(verifier, sess, nil)

	state, err := g.Check(context.Background())
	require.Error(t, err)

	assert.Equal(t, Unverified, state, "a flaky connection is not a failed verification")
	assert.False(t, sess.cleared)
	assert.Equal(t, "tok1", sess.token)
}

func TestGuard_CancelledCheckLeavesNoStaleState(t *testing.T) {
	sess := &fakeSession{token: "tok1"}
	verifier := &fakeVerifier{block: make(chan struct{})}
	defer close(verifier.block)
	g := New(verifier, sess, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		state, err := g.Check(ctx)
		assert.Error(t, err)
		assert.Equal(t, Unverified, state)
	}()

	// Wait until the guard is mid-verification, then navigate away
	assert.Eventually(t, func() bool { return g.State() == Verifying }, time.Second, time.Millisecond)
	cancel()
	<-done

	assert.False(t, sess.cleared, "cancellation must not log the user out")
	assert.Equal(t, Unverified, g.State())
}

func TestGuard_InstancesAreIndependent(t *testing.T) {
	sess := &fakeSession{token: "tok1"}
	g1 := New(&fakeVerifier{err: errors.New("boom")}, sess, nil)
	g2 := New(&fakeVerifier{}, sess, nil)

	_, _ = g1.Check(context.Background())
	state, err := g2.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Authorized, state)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unverified", Unverified.String())
	assert.Equal(t, "verifying", Verifying.String())
	assert.Equal(t, "authorized", Authorized.String())
	assert.Equal(t, "unauthorized", Unauthorized.String())
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	assert.WithinDuration(t, exp, got, time.Second)

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}
