package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("put staff: %w", StoreFailure("dynamodb PutItem", cause))

	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "Could not validate credentials", ErrUnauthorized.Error())
	assert.Equal(t, "bad updates: empty", InvalidInput("bad updates", errors.New("empty")).Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternalError, "x", http.StatusInternalServerError))
}

func TestFrom(t *testing.T) {
	t.Run("keeps app errors", func(t *testing.T) {
		ae := From(fmt.Errorf("ctx: %w", ErrUnauthorized))
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
		assert.Equal(t, CodeUnauthorized, ae.Code)
	})

	t.Run("plain errors become 500", func(t *testing.T) {
		ae := From(errors.New("network down"))
		assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
		assert.Contains(t, ae.Error(), "network down")
	})
}
