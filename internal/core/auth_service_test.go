package core

import (
	"testing"
	"time"

	"jta.service/internal/core/model"
	"jta.service/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestAuth(c *clock) *AuthService {
	return NewAuthService(testSecret, "admin", "pw", 15*time.Minute).WithClock(c.Now)
}

func TestAuthService_IssueVerify(t *testing.T) {
	c := &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	auth := newTestAuth(c)

	tok, err := auth.Issue("admin", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.TokenTypeBearer, tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	sub, err := auth.Verify(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
}

func TestAuthService_InvalidCredentials(t *testing.T) {
	auth := newTestAuth(&clock{t: time.Now()})

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"someone", "pw"},
		{"", ""},
		{"ADMIN", "pw"},
	} {
		tok, err := auth.Issue(tc.user, tc.pass)
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
		assert.Empty(t, tok.AccessToken)
	}
}

func TestAuthService_Expiry(t *testing.T) {
	c := &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	auth := newTestAuth(c)

	tok, err := auth.Issue("admin", "pw")
	require.NoError(t, err)

	c.t = c.t.Add(14 * time.Minute)
	_, err = auth.Verify(tok.AccessToken)
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Minute)
	_, err = auth.Verify(tok.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthService_RejectsBadTokens(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	auth := newTestAuth(&clock{t: now})

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{Subject: "admin", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}

	tests := map[string]string{
		"garbage":          "not-a-token",
		"empty":            "",
		"wrong secret":     sign(jwt.SigningMethodHS256, []byte("other-secret"), valid),
		"other hmac alg":   sign(jwt.SigningMethodHS512, []byte(testSecret), valid),
		"alg none":         sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid),
		"missing subject":  sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{ExpiresAt: valid.ExpiresAt}),
		"missing expiry":   sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "admin"}),
		"already expired":  sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "admin", ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second))}),
		"tampered payload": sign(jwt.SigningMethodHS256, []byte(testSecret), valid) + "x",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			sub, err := auth.Verify(tok)
			assert.ErrorIs(t, err, apperror.ErrUnauthorized)
			assert.Empty(t, sub)
		})
	}
}
