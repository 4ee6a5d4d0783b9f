package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

const typeAccess = "access"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token is expired")
)

// Claims is the verified content of an access token.
type Claims struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

func NewAccessToken(user models.User, secret string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["uid"] = user.ID
	claims["email"] = user.Email
	claims["typ"] = typeAccess
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString([]byte(secret))
}

// ParseAccessToken verifies signature, type and expiry of an access token.
func ParseAccessToken(tokenString, secret string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	if typ, ok := claims["typ"].(string); !ok || typ != typeAccess {
		return Claims{}, fmt.Errorf("%w: expected access token, got %v", ErrInvalidToken, claims["typ"])
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return Claims{}, fmt.Errorf("%w: uid claim missing", ErrInvalidToken)
	}

	email, ok := claims["email"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("%w: email claim missing", ErrInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, fmt.Errorf("%w: exp claim missing", ErrInvalidToken)
	}

	return Claims{UserID: int64(uid), Email: email, ExpiresAt: exp.Time}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. Any other shape yields "".
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	token = strings.TrimSpace(token)
	if strings.ContainsAny(token, " \t") {
		return ""
	}

	return token
}
