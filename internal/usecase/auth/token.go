package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domsession "github.com/kailas-cloud/estaterec/internal/domain/session"
)

// MinSecretLength is the shortest accepted HMAC secret.
const MinSecretLength = 32

const issuer = "estaterec"

// Claims is the signed payload of a session token. ID (jti) is the session id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return uint(id), nil
}

// TokenSigner issues and verifies HS256 session tokens.
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

// NewTokenSigner creates a signer. The secret must be at least MinSecretLength bytes.
func NewTokenSigner(secret string) (*TokenSigner, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	return &TokenSigner{secret: []byte(secret), now: time.Now}, nil
}

// Sign issues a token bound to sess.
func (s *TokenSigner) Sign(sess domsession.Session) (string, error) {
	claims := &Claims{
		Username: sess.Username(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID(),
			Subject:   strconv.FormatUint(uint64(sess.UserID()), 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt()),
			NotBefore: jwt.NewNumericDate(sess.IssuedAt()),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm, issuer and expiry, and returns the claims.
func (s *TokenSigner) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New("token has no session id")
	}
	return claims, nil
}
