package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *Issuer {
	return NewIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := testIssuer()
	token, err := issuer.AccessToken("u1", "TP123456", "student")
	require.NoError(t, err)

	claims, err := issuer.Verify(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "TP123456", claims.APUID())
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestVerify_RejectsWrongType(t *testing.T) {
	t.Parallel()

	issuer := testIssuer()
	refresh, err := issuer.RefreshToken("u1", "TP123456", "student")
	require.NoError(t, err)

	_, err = issuer.Verify(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = issuer.Verify(refresh, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestVerify_RejectsExpired(t *testing.T) {
	t.Parallel()

	issuer := testIssuer()
	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	token, err := issuer.AccessToken("u1", "TP123456", "student")
	require.NoError(t, err)

	// Jump past the access TTL.
	issuer.now = func() time.Time { return issued.Add(16 * time.Minute) }

	_, err = issuer.Verify(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	t.Parallel()

	token, err := testIssuer().AccessToken("u1", "TP123456", "student")
	require.NoError(t, err)

	other := NewIssuer("different-secret", 15*time.Minute, 7*24*time.Hour)
	_, err = other.Verify(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := testIssuer().Verify("not.a.jwt", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
