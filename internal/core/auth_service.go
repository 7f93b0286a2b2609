package core

import (
	"crypto/subtle"
	"fmt"
	"time"

	"jta.service/internal/core/model"
	"jta.service/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and verifies bearer tokens for the single API account.
// There are no per-user records: the configured username/password pair is the
// only credential, and tokens are stateless HS256 JWTs.
type AuthService struct {
	secret   []byte
	username string
	password string
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates the token service. ttl is the lifetime of issued tokens.
func NewAuthService(secret, username, password string, ttl time.Duration) *AuthService {
	return &AuthService{
		secret:   []byte(secret),
		username: username,
		password: password,
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Issue checks the credentials and returns a signed token for username.
func (s *AuthService) Issue(username, password string) (model.Token, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return model.Token{}, apperror.ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return model.Token{}, apperror.Wrap(err, apperror.CodeInternalError, "failed to sign access token", apperror.ErrInternal.HTTPStatus)
	}

	return model.Token{AccessToken: signed, TokenType: model.TokenTypeBearer}, nil
}

// Verify validates signature, algorithm and expiry and returns the token subject.
func (s *AuthService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeUnauthorized, apperror.ErrUnauthorized.Message, apperror.ErrUnauthorized.HTTPStatus)
	}
	if !token.Valid || claims.Subject == "" {
		return "", apperror.ErrUnauthorized
	}

	return claims.Subject, nil
}
