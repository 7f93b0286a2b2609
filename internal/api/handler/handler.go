package handler

import (
	"net/http"

	"jta.service/internal/core/model"
	"jta.service/pkg/apperror"
)

const welcomeMessage = "Welcome to JTA Residential Care API"

// TokenIssuer exchanges credentials for a bearer token.
type TokenIssuer interface {
	Issue(username, password string) (model.Token, error)
}

type AuthHandler struct {
	Service TokenIssuer
}

// Root answers GET / without authentication.
func Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, Message{Message: welcomeMessage})
}

// Health answers GET /health without authentication.
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Service is operational."))
}

// Login takes an OAuth2 password-grant style form (username, password).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, apperror.InvalidInput("Invalid form body", err))
		return
	}

	// Missing fields compare unequal like any other mismatch.
	token, err := h.Service.Issue(r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, token)
}
