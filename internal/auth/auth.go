// Package auth resolves the optional signed-in identity from incoming
// requests. Identity is advisory: every endpoint works for anonymous
// visitors, and authenticated users additionally get order history access.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/rideright/storefront/pkg/logger"
)

var (
	// ErrInvalidToken is returned for malformed tokens or wrong signing methods.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token's expiry has passed.
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the session token claims. The subject carries the user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Identity describes who is making a request. UserID is empty for
// anonymous visitors.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Authenticated reports whether the request carried a valid session token.
func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// Verifier validates HS256 session tokens.
type Verifier struct {
	secret []byte
	issuer string
	log    logger.Logger
}

// NewVerifier creates a verifier for tokens signed with secret. Issuer is
// optional; when set, tokens from other issuers are rejected.
func NewVerifier(secret []byte, issuer string, log logger.Logger) *Verifier {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Verifier{secret: secret, issuer: issuer, log: log}
}

// Verify parses and validates a token string, returning its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IdentityFromRequest resolves the caller's identity from the Authorization
// header. Any failure, including a missing header, yields the anonymous
// identity rather than an error: authentication here gates extra features,
// never access.
func (v *Verifier) IdentityFromRequest(r *http.Request) Identity {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenString == "" || tokenString == header {
		return Identity{}
	}

	claims, err := v.Verify(tokenString)
	if err != nil {
		v.log.Debug("Session token rejected", map[string]interface{}{
			"operation": "auth_verify",
			"error":     err.Error(),
		})
		return Identity{}
	}

	return Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}
}

// IssueToken signs a session token for the user. Used by tests and local
// development; production tokens come from the identity provider sharing
// the same secret.
func (v *Verifier) IssueToken(userID, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}
