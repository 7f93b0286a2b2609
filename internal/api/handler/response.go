package handler

import (
	"encoding/json"
	"net/http"

	"jta.service/pkg/apperror"

	"github.com/rs/zerolog/log"
)

// WriteJSON encodes body as the JSON response with the given status.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteError maps err to its status code and writes {"detail": ...}.
// Authentication failures never echo the underlying cause.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperror.From(err)

	detail := ae.Message
	if ae.HTTPStatus == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	} else if ae.Err != nil {
		detail = ae.Error()
	}

	l := log.Ctx(r.Context())
	if ae.HTTPStatus >= http.StatusInternalServerError {
		l.Error().Err(err).Str("code", ae.Code).Msg("Request failed")
	} else {
		l.Warn().Err(err).Str("code", ae.Code).Msg("Request rejected")
	}

	WriteJSON(w, r, ae.HTTPStatus, map[string]string{"detail": detail})
}

// Message is the body of simple acknowledgement responses.
type Message struct {
	Message string `json:"message"`
}
