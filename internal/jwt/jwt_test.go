package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupKeys(t *testing.T) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privateKey = key
	publicKey = &key.PublicKey
}

func signClaims(t *testing.T, claims jwtgo.RegisteredClaims) string {
	t.Helper()
	signed, err := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, claims).SignedString(privateKey)
	require.NoError(t, err)
	return signed
}

func TestSignAndValidOccupant(t *testing.T) {
	setupKeys(t)

	sign, err := Sign("player:18")
	assert.NoError(t, err)

	occupant, err := ValidOccupant(sign)
	assert.NoError(t, err)
	assert.Equal(t, "player:18", occupant)
}

func TestValidOccupant_InvalidAudience(t *testing.T) {
	setupKeys(t)

	signed := signClaims(t, jwtgo.RegisteredClaims{
		Audience: jwtgo.ClaimStrings{"different-audience"},
		ID:       uuid.New().String(),
		IssuedAt: jwtgo.NewNumericDate(time.Now()),
		Issuer:   Issuer,
		Subject:  "player:15",
	})

	occupant, err := ValidOccupant(signed)
	assert.EqualError(t, err, "invalid audience")
	assert.Equal(t, "", occupant)
}

func TestValidOccupant_InvalidIssuer(t *testing.T) {
	setupKeys(t)

	signed := signClaims(t, jwtgo.RegisteredClaims{
		Audience: jwtgo.ClaimStrings{Audience},
		ID:       uuid.New().String(),
		IssuedAt: jwtgo.NewNumericDate(time.Now()),
		Issuer:   "invalid-issuer",
		Subject:  "player:15",
	})

	occupant, err := ValidOccupant(signed)
	assert.EqualError(t, err, "invalid issuer")
	assert.Equal(t, "", occupant)
}

func TestValidOccupant_Expired(t *testing.T) {
	setupKeys(t)

	signed := signClaims(t, jwtgo.RegisteredClaims{
		Audience:  jwtgo.ClaimStrings{Audience},
		ExpiresAt: jwtgo.NewNumericDate(time.Now().Add(-time.Minute)),
		Issuer:    Issuer,
		Subject:   "player:15",
	})

	_, err := ValidOccupant(signed)
	assert.ErrorIs(t, err, jwtgo.ErrTokenExpired)
}

func TestValidOccupant_WrongKey(t *testing.T) {
	setupKeys(t)
	signed, err := Sign("player:15")
	require.NoError(t, err)

	setupKeys(t)
	_, err = ValidOccupant(signed)
	assert.ErrorIs(t, err, jwtgo.ErrTokenSignatureInvalid)
}
