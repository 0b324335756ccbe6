package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"efficiensa/internal/models"
)

var (
	ErrInvalidPIN   = errors.New("invalid PIN")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are carried in every issued token
type Claims struct {
	Role     models.Role `json:"role"`
	Terminal string      `json:"terminal,omitempty"`
	jwt.StandardClaims
}

// Authenticator grants admin access to terminals that know the PIN
type Authenticator struct {
	secret []byte
	pin    string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// New creates an authenticator
func New(secret, pin string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{
		secret:  []byte(secret),
		pin:     pin,
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Login checks the PIN and issues an admin token for the terminal
func (a *Authenticator) Login(pin, terminal string) (string, *Claims, error) {
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(pin)), []byte(a.pin)) != 1 {
		return "", nil, ErrInvalidPIN
	}

	now := a.now()
	claims := &Claims{
		Role:     models.RoleAdmin,
		Terminal: terminal,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   models.AdminUser.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, claims, nil
}

// Parse validates a token and returns its claims
func (a *Authenticator) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	a.mu.Lock()
	_, revoked := a.revoked[claims.Id]
	a.mu.Unlock()
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke invalidates a token until it would have expired anyway
func (a *Authenticator) Revoke(claims *Claims) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	for id, exp := range a.revoked {
		if exp.Before(now) {
			delete(a.revoked, id)
		}
	}
	a.revoked[claims.Id] = time.Unix(claims.ExpiresAt, 0)
}

// UserOf returns the user a set of claims represents; nil claims mean the public user
func UserOf(claims *Claims) models.User {
	if claims != nil && claims.Role == models.RoleAdmin {
		return models.AdminUser
	}
	return models.PublicUser
}
