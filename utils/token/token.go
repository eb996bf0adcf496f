package token

import (
	"bizdesk-backend/models"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failure taxonomy. Callers branch on these to decide whether
// a failure is a hard error or a degrade-to-base-identity condition.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Signer signs and verifies impersonation tokens with a symmetric secret.
// The secret is injected at construction; the signer never reads ambient
// configuration.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner creates a new Signer
func NewSigner(secret, issuer string) *Signer {
	return &Signer{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// HMACKeyfunc returns a jwt.Keyfunc pinned to HS256. Tokens naming any
// other algorithm are rejected before signature verification.
func HMACKeyfunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}
		return secret, nil
	}
}

// Sign produces a compact signed token embedding the claims with an
// absolute expiry of now+ttl. The claims are not mutated.
func (s *Signer) Sign(claims *models.ImpersonationClaims, ttl time.Duration) (string, error) {
	now := time.Now()

	signed := *claims
	if signed.Timestamp == 0 {
		signed.Timestamp = now.UnixMilli()
	}
	signed.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   signed.ImpersonatedUserID,
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &signed)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and verifies a signed token, failing closed on malformed
// input, bad signatures and expired timestamps.
func (s *Signer) Verify(tokenString string) (*models.ImpersonationClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.ImpersonationClaims{}, HMACKeyfunc(s.secret))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
		}
	}

	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	claims, ok := token.Claims.(*models.ImpersonationClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
