package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurudeen19/rag-fortress/pkg/token"
)

const testSecret = "test-secret-key-for-unit-tests"

func newTestIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	iss, err := token.NewIssuer(testSecret, "rag-fortress-test", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return iss
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	_, err := token.NewIssuer("", "iss", time.Minute, time.Hour)
	assert.Error(t, err, "an empty secret must be rejected")
}

func TestAccess_RoundTrip(t *testing.T) {
	iss := newTestIssuer(t)

	tok, err := iss.Access("user-1", "admin", 4)
	require.NoError(t, err)

	claims, err := iss.Parse(tok, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, 4, claims.Clearance)
	assert.Equal(t, token.TypeAccess, claims.TokenType)
}

func TestRefresh_CarriesJTI(t *testing.T) {
	iss := newTestIssuer(t)

	tok, jti, err := iss.Refresh("user-1", "viewer", 1)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := iss.Parse(tok, token.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID, "the returned JTI must match the token's jti claim")
}

func TestParse_RejectsWrongType(t *testing.T) {
	iss := newTestIssuer(t)

	access, err := iss.Access("user-1", "viewer", 1)
	require.NoError(t, err)

	// An access token must not be accepted where a refresh token is expected.
	_, err = iss.Parse(access, token.TypeRefresh)
	assert.Error(t, err)
}

func TestParse_RejectsWrongSecret(t *testing.T) {
	iss := newTestIssuer(t)
	other, err := token.NewIssuer("a-completely-different-secret", "iss", time.Minute, time.Hour)
	require.NoError(t, err)

	tok, err := iss.Access("user-1", "viewer", 1)
	require.NoError(t, err)

	_, err = other.Parse(tok, token.TypeAccess)
	assert.Error(t, err, "a token signed with another secret must fail validation")
}

func TestParse_RejectsExpired(t *testing.T) {
	iss, err := token.NewIssuer(testSecret, "iss", -time.Minute, time.Hour)
	require.NoError(t, err)

	tok, err := iss.Access("user-1", "viewer", 1)
	require.NoError(t, err)

	_, err = iss.Parse(tok, token.TypeAccess)
	assert.Error(t, err, "an already-expired token must fail validation")
}
