package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/peoplecore/hr-portal/internal/domain"
	apperrors "github.com/peoplecore/hr-portal/pkg/util"
)

// TokenManager issues and verifies signed session tokens. The secret is
// loaded once at startup and injected here; it is never exposed past this
// type.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the session token payload. Claims are immutable once
// issued; Verify returns them exactly as Issue wrote them.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token binding the subject, email and role with a fixed
// expiry. There is no renewal path; a fresh token must be issued instead.
func (tm *TokenManager) Issue(userID, email string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and authenticates a previously issued token. Failures map to
// distinct error codes: MALFORMED_TOKEN when the token cannot be parsed,
// INVALID_SIGNATURE on mismatch (including a rotated secret), TOKEN_EXPIRED
// past the expiry instant.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	// strict decoding rejects non-zero base64 padding bits, so a token that
	// differs from the issued one in any bit of the signature fails
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithStrictDecoding())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, apperrors.NewMalformedToken()
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, apperrors.NewInvalidSignature()
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.NewExpiredToken()
		default:
			return nil, apperrors.NewMalformedToken()
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.NewMalformedToken()
	}
	return claims, nil
}
