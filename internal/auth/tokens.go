package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim. A refresh token is never accepted
// where an access token is expected, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Token verification errors, mapped to error-envelope codes by the API layer.
var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the JWT payload: the user's database ID, campus ID (subject),
// role, and the token type.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// APUID returns the campus ID carried in the subject claim.
func (c *Claims) APUID() string {
	return c.Subject
}

// Issuer signs and verifies HS256 tokens with a shared secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// NewIssuer constructs an Issuer. TTLs follow the configured access/refresh
// lifetimes (15 minutes and 7 days by default).
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessToken issues a short-lived access token for the user.
func (i *Issuer) AccessToken(userID, apuID, role string) (string, error) {
	return i.sign(userID, apuID, role, TokenTypeAccess, i.accessTTL)
}

// RefreshToken issues a long-lived refresh token for the user. The caller is
// responsible for persisting it so it can be revoked.
func (i *Issuer) RefreshToken(userID, apuID, role string) (string, error) {
	return i.sign(userID, apuID, role, TokenTypeRefresh, i.refreshTTL)
}

// RefreshTTL returns the configured refresh lifetime, used for the token row
// expiry and the cookie max-age.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

func (i *Issuer) sign(userID, apuID, role, tokenType string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   apuID,
			ExpiresAt: jwt.NewNumericDate(i.now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(i.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses the token, checks the signature and expiry, and enforces the
// expected token type and payload completeness.
func (i *Issuer) Verify(tokenStr, expectedType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing payload fields", ErrInvalidToken)
	}

	if claims.Type != expectedType {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongTokenType, expectedType, claims.Type)
	}

	return &claims, nil
}
