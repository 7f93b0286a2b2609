package middleware

import (
	"context"
	"net/http"
	"strings"

	"jta.service/internal/api/handler"
	"jta.service/pkg/apperror"

	"github.com/rs/zerolog/log"
)

type contextKey string

const subjectKey contextKey = "subject"

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth rejects requests without a valid "Authorization: Bearer <token>" header.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				handler.WriteError(w, r, apperror.ErrUnauthorized)
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				handler.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			l := log.Ctx(ctx).With().Str("subject", subject).Logger()
			next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
		})
	}
}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(subjectKey).(string); ok {
		return v
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
