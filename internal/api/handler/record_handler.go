package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"jta.service/internal/core/model"
	"jta.service/internal/ports/repository"
	"jta.service/pkg/apperror"

	"github.com/gorilla/mux"
)

// RecordService is the CRUD contract a resource exposes to HTTP.
type RecordService[T any] interface {
	Schema() model.Schema
	Key(vars map[string]string) (repository.Key, error)
	Create(ctx context.Context, rec *T) error
	List(ctx context.Context) ([]map[string]any, error)
	Get(ctx context.Context, key repository.Key) (map[string]any, error)
	Update(ctx context.Context, key repository.Key, updates map[string]any) (map[string]any, error)
	Delete(ctx context.Context, key repository.Key) error
}

// RecordHandler serves the five CRUD routes of one resource. Item routes take
// the key attributes as route variables named after the attributes.
type RecordHandler[T any] struct {
	Service RecordService[T]
}

// UpdateRequest is the body of PUT on an item route.
type UpdateRequest struct {
	Updates map[string]any `json:"updates"`
}

func (h *RecordHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		WriteError(w, r, apperror.InvalidInput("Invalid request body", err))
		return
	}

	if err := h.Service.Create(r.Context(), &rec); err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, Message{Message: fmt.Sprintf("%s created successfully", h.Service.Schema().Name)})
}

func (h *RecordHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Service.List(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, recs)
}

// Get answers {} with 200 when the record does not exist.
func (h *RecordHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	key, err := h.Service.Key(mux.Vars(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	rec, err := h.Service.Get(r.Context(), key)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, rec)
}

// Update answers with the changed fields only.
func (h *RecordHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	key, err := h.Service.Key(mux.Vars(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req UpdateRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, apperror.InvalidInput("Updates should be provided as a JSON object", err))
		return
	}

	changed, err := h.Service.Update(r.Context(), key, req.Updates)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, changed)
}

// Delete reports success whether or not the record existed.
func (h *RecordHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := h.Service.Key(mux.Vars(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), key); err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, Message{Message: fmt.Sprintf("%s deleted successfully", h.Service.Schema().Name)})
}
