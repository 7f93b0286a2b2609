package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jta.service/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	want string
}

func (v stubVerifier) Verify(token string) (string, error) {
	if token != v.want {
		return "", apperror.Wrap(errors.New("bad signature"), apperror.CodeUnauthorized, apperror.ErrUnauthorized.Message, http.StatusUnauthorized)
	}
	return "admin", nil
}

func TestAuth(t *testing.T) {
	var subject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Auth(stubVerifier{want: "good"})(next)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", "bearer good", http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"basic scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer forged", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject = ""
			req := httptest.NewRequest(http.MethodGet, "/jta/api/staff", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
				assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, w.Body.String())
				assert.Empty(t, subject)
			} else {
				assert.Equal(t, "admin", subject)
			}
		})
	}
}

func TestRequestContext(t *testing.T) {
	h := RequestContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestAccessLog_PassesThrough(t *testing.T) {
	h := RequestContext(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}
