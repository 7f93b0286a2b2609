package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"jta.service/internal/core/codec"
	"jta.service/internal/core/model"
	"jta.service/internal/ports/repository"
	"jta.service/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// RecordService is the CRUD façade for one resource table. Staff, Shift and
// Expense each get an instance; T is the request body type used on create.
type RecordService[T any] struct {
	store    repository.Store
	schema   model.Schema
	validate *validator.Validate
}

// NewRecordService wires a resource schema to the store.
func NewRecordService[T any](store repository.Store, schema model.Schema, validate *validator.Validate) *RecordService[T] {
	return &RecordService[T]{
		store:    store,
		schema:   schema,
		validate: validate,
	}
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *RecordService[T]) Schema() model.Schema {
	return s.schema
}

// Key builds the primary key from route variables.
func (s *RecordService[T]) Key(vars map[string]string) (repository.Key, error) {
	key, err := s.schema.Key(vars)
	if err != nil {
		return nil, apperror.InvalidInput("invalid key", err)
	}
	return key, nil
}

// Create validates rec and writes it, replacing any record with the same key.
func (s *RecordService[T]) Create(ctx context.Context, rec *T) error {
	if err := s.validate.StructCtx(ctx, rec); err != nil {
		return apperror.InvalidInput(fmt.Sprintf("invalid %s", s.schema.Name), validationError(err))
	}

	item, err := codec.EncodeRecord(rec)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, apperror.ErrInternal.HTTPStatus)
	}

	if err := s.store.Put(ctx, s.schema.Table, item); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("table", s.schema.Table).Msgf("%s created", s.schema.Name)
	return nil
}

// List returns every record in the table, decoded to plain values.
func (s *RecordService[T]) List(ctx context.Context) ([]map[string]any, error) {
	items, err := s.store.Scan(ctx, s.schema.Table)
	if err != nil {
		return nil, err
	}

	recs, err := codec.DecodeItems(items)
	if err != nil {
		return nil, apperror.InvalidInput("stored record cannot be decoded", err)
	}
	return recs, nil
}

// Get returns the record for key, or an empty map if there is none.
func (s *RecordService[T]) Get(ctx context.Context, key repository.Key) (map[string]any, error) {
	item, err := s.store.Get(ctx, s.schema.Table, key)
	if err != nil {
		return nil, err
	}

	rec, err := codec.DecodeItem(item)
	if err != nil {
		return nil, apperror.InvalidInput("stored record cannot be decoded", err)
	}
	return rec, nil
}

// Update sets exactly the given fields and returns their new values.
func (s *RecordService[T]) Update(ctx context.Context, key repository.Key, updates map[string]any) (map[string]any, error) {
	set, err := codec.BuildUpdate(s.schema, updates)
	if err != nil {
		return nil, apperror.InvalidInput("invalid updates", err)
	}

	item, err := s.store.Update(ctx, s.schema.Table, key, set)
	if err != nil {
		return nil, err
	}

	rec, err := codec.DecodeItem(item)
	if err != nil {
		return nil, apperror.InvalidInput("updated attributes cannot be decoded", err)
	}

	log.Ctx(ctx).Info().Str("table", s.schema.Table).Int("fields", len(set)).Msgf("%s updated", s.schema.Name)
	return rec, nil
}

// Delete removes the record. Deleting a record that does not exist succeeds.
func (s *RecordService[T]) Delete(ctx context.Context, key repository.Key) error {
	if err := s.store.Delete(ctx, s.schema.Table, key); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("table", s.schema.Table).Msgf("%s deleted", s.schema.Name)
	return nil
}

// validationError reduces validator output to its first failure.
func validationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		if e.Tag() == "required" {
			return fmt.Errorf("%s is required", e.Field())
		}
		return fmt.Errorf("%s is invalid", e.Field())
	}
	return err
}
