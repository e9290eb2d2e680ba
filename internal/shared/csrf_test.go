package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFTokenLifecycle(t *testing.T) {
	m := NewCSRFManager("csrf-secret")
	sess := &Session{ID: "session-1"}

	token, err := m.EnsureToken(sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Stable across calls for the same session.
	again, err := m.EnsureToken(sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, m.VerifyToken(sess, token))
	assert.ErrorIs(t, m.VerifyToken(sess, "forged"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.VerifyToken(sess, ""), ErrCSRFTokenMissing)
}

func TestCSRFTokenPerSession(t *testing.T) {
	m := NewCSRFManager("csrf-secret")

	a := &Session{ID: "session-a"}
	b := &Session{ID: "session-b"}

	tokenA, err := m.EnsureToken(a)
	require.NoError(t, err)
	tokenB, err := m.EnsureToken(b)
	require.NoError(t, err)

	assert.NotEqual(t, tokenA, tokenB)
	assert.Error(t, m.VerifyToken(a, tokenB))
}

func TestCSRFNilSession(t *testing.T) {
	m := NewCSRFManager("csrf-secret")

	_, err := m.EnsureToken(nil)
	assert.ErrorIs(t, err, ErrCSRFTokenMissing)
	assert.ErrorIs(t, m.VerifyToken(nil, "anything"), ErrCSRFTokenMissing)
}
