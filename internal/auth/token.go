// Package auth выпускает и проверяет подписанные токены доступа и хеширует пароли.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var signingMethod = jwt.SigningMethodHS256

// ErrInvalidToken возвращается, если подпись или содержимое токена некорректны.
var ErrInvalidToken = errors.New("invalid token")

// Identity: данные вызывающей стороны, извлечённые из токена.
// Флаг IsAdmin доверяется токену на всё время его жизни.
type Identity struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Claims: содержимое токена доступа.
type Claims struct {
	UserID  uuid.UUID `json:"_id"`
	IsAdmin bool      `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenManager подписывает и проверяет токены ключом HMAC.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager создаёт TokenManager. Нулевой ttl означает токены без срока действия.
// Пустой секрет заменяется случайным ключом, и токены живут до перезапуска процесса.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &TokenManager{secret: key, ttl: ttl}
}

// Issue выпускает токен для указанной личности.
func (m *TokenManager) Issue(id Identity, now time.Time) (string, error) {
	claims := Claims{
		UserID:  id.UserID,
		IsAdmin: id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  id.UserID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись и срок действия токена и возвращает личность.
func (m *TokenManager) Parse(token string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == uuid.Nil {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return Identity{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}
