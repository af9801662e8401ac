package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer issues the JWT
const Issuer = "app.casino.poker"

// Audience is the intended JWT audience
const Audience = "poker.casino.app"

// Lifetime is how long a signed token is valid
const Lifetime = time.Hour * 24

var publicKey *rsa.PublicKey
var privateKey *rsa.PrivateKey

// LoadKeys will load the public and private keys
// this method should only be called once.
func LoadKeys() {
	cfg := config.Instance().JWT
	privateKey = loadPrivateKey(cfg.PrivateKey)
	publicKey = loadPublicKey(cfg.PublicKey)
}

// UseKey replaces the loaded keys with key and its public half
func UseKey(key *rsa.PrivateKey) {
	privateKey = key
	publicKey = &key.PublicKey
}

// Sign will sign a JWT whose subject is the occupant
func Sign(occupant string) (string, error) {
	if privateKey == nil {
		panic("LoadKeys() not called")
	}

	now := time.Now()
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, jwtgo.RegisteredClaims{
		Audience:  jwtgo.ClaimStrings{Audience},
		ID:        uuid.New().String(),
		IssuedAt:  jwtgo.NewNumericDate(now),
		ExpiresAt: jwtgo.NewNumericDate(now.Add(Lifetime)),
		Issuer:    Issuer,
		Subject:   occupant,
	})

	return token.SignedString(privateKey)
}

// ValidOccupant will validate a signed JWT and return its occupant
func ValidOccupant(signedString string) (string, error) {
	if publicKey == nil {
		panic("LoadKeys() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &jwtgo.RegisteredClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodRSA); !ok {
			return nil, errors.New("expected RS256 signing method")
		}

		return publicKey, nil
	})

	if err != nil {
		return "", err
	}

	if !token.Valid {
		logrus.Warn("token claims were not valid. did not expect to reach this code")
		return "", errors.New("claims were not valid")
	}

	claims, ok := token.Claims.(*jwtgo.RegisteredClaims)
	if !ok {
		return "", fmt.Errorf("expected jwt.RegisteredClaims, got %T", token.Claims)
	}

	if !containsAudience(claims.Audience, Audience) {
		return "", errors.New("invalid audience")
	}

	if claims.Issuer != Issuer {
		return "", errors.New("invalid issuer")
	}

	if claims.Subject == "" {
		return "", errors.New("missing subject")
	}

	return claims.Subject, nil
}

func loadPublicKey(path string) *rsa.PublicKey {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("could not read file")
	}

	pem, err := jwtgo.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		logrus.WithError(err).Fatal("could not parse RSA public key")
	}

	return pem
}

func loadPrivateKey(path string) *rsa.PrivateKey {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("could not read file")
	}

	pem, err := jwtgo.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		logrus.WithError(err).Fatal("could not parse RSA private key")
	}

	return pem
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
