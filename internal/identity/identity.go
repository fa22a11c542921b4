package identity

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parley-dev/parley/internal/apiclient"
	"github.com/parley-dev/parley/shared/domain"
	internal_errors "github.com/parley-dev/parley/shared/errors"
	"github.com/parley-dev/parley/shared/logger"
)

// Identity is what the rest of the client needs to know about the caller.
// A nil *Identity means anonymous.
type Identity struct {
	UserId  domain.UserId
	Name    string
	IsAdmin bool
}

// Service holds the current identity derived from the identity provider's
// access token. Sign-in and sign-out are asynchronous backend calls; the
// decoded (userId, isAdmin) pair is all the coordination layers consume.
type Service struct {
	client    *apiclient.Client
	secretKey string

	mu      sync.RWMutex
	current *Identity
}

func New(client *apiclient.Client, secretKey string) *Service {
	return &Service{client: client, secretKey: secretKey}
}

// Current returns the signed-in identity or nil.
func (s *Service) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SignIn authenticates against the backend, installs the token on the API
// client and decodes the identity from its claims.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	token, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	ident, err := s.decode(token)
	if err != nil {
		return nil, err
	}

	s.client.SetToken(token)
	s.mu.Lock()
	s.current = ident
	s.mu.Unlock()

	logger.Log.Info("signed in", "component", "identity", "user_id", ident.UserId, "admin", ident.IsAdmin)
	return ident, nil
}

// Adopt installs an existing token (restored session). Expired or garbage
// tokens leave the service anonymous.
func (s *Service) Adopt(token string) *Identity {
	ident, err := s.decode(token)
	if err != nil {
		logger.Log.Warn("stored token rejected", "component", "identity", "error", err)
		return nil
	}
	s.client.SetToken(token)
	s.mu.Lock()
	s.current = ident
	s.mu.Unlock()
	return ident
}

// SignOut clears the identity locally and best-effort revokes the session.
func (s *Service) SignOut(ctx context.Context) {
	if err := s.client.SignOut(ctx); err != nil {
		logger.Log.Warn("backend sign-out failed", "component", "identity", "error", err)
	}
	s.client.SetToken("")
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Service) decode(tokenStr string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{
				Message:    fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]),
				StatusCode: http.StatusUnauthorized,
			}
		}
		return []byte(s.secretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token claims", StatusCode: http.StatusUnauthorized}
	}

	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Token missing user id", StatusCode: http.StatusUnauthorized}
	}
	name, _ := claims["name"].(string)
	admin, _ := claims["admin"].(bool)

	return &Identity{UserId: domain.UserId(uid), Name: name, IsAdmin: admin}, nil
}

// NewToken mints a token for tests and local development.
func NewToken(secretKey string, user domain.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"uid":   user.Id,
		"name":  user.Name,
		"admin": user.IsAdmin,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}
