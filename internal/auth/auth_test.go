package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		secret, err := GenerateSecret()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(secret), 10)
		assert.False(t, seen[secret], "secrets must not repeat")
		seen[secret] = true
	}
}

func TestHashSecretRoundtrip(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	hash, err := HashSecret(secret)
	require.NoError(t, err)

	assert.NotContains(t, hash, secret)
	assert.True(t, CheckSecretHash(secret, hash))
	assert.False(t, CheckSecretHash("wrong-secret", hash))
}

func TestTokenIssuer_Roundtrip(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-key", time.Hour)

	token, err := issuer.Generate("DOC001", "practitioner")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "DOC001", claims.AccountID)
	assert.Equal(t, "practitioner", claims.Role)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-key", -time.Minute)

	token, err := issuer.Generate("DOC001", "practitioner")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsForeignKey(t *testing.T) {
	issuer := NewTokenIssuer("key-one", time.Hour)
	other := NewTokenIssuer("key-two", time.Hour)

	token, err := issuer.Generate("DOC001", "practitioner")
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
