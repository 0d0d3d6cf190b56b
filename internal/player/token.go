package player

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "battleship"

// tokenClaims is the payload of a player token. Tokens carry no expiry: a
// player's token is valid for as long as the player is registered.
type tokenClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Tokens signs and parses HS256 player tokens.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// Issue signs a token for the given player.
func (t *Tokens) Issue(playerID, name string) (string, error) {
	claims := tokenClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  playerID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
			ID:       uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Subject verifies the token signature and returns the player id it was issued to.
func (t *Tokens) Subject(token string) (string, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// hashToken bcrypt-hashes a token. bcrypt only reads the first 72 bytes of its
// input, so the token is reduced to a hex SHA-256 digest first.
func hashToken(token string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword(digest(token), cost)
}

func checkToken(hash []byte, token string) bool {
	return bcrypt.CompareHashAndPassword(hash, digest(token)) == nil
}

func digest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}
