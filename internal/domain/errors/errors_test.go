package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeInvalidInput, "bad", ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrInvalidInput.Error(), err.Error())

	bare := NewAppError(http.StatusTeapot, "TEAPOT", "short and stout", nil)
	assert.Equal(t, "short and stout", bare.Error())

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.ErrorIs(t, notFound, ErrNotFound)

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeConflict, conflict.Code)
	assert.ErrorIs(t, conflict, ErrConflict)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)

	badReq := BadRequest("bad request")
	assert.Equal(t, http.StatusBadRequest, badReq.Status)
	assert.Equal(t, CodeInvalidInput, badReq.Code)

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, CodeUnauthorized, unauth.Code)
}

func TestPersistence_KeepsCauseReachable(t *testing.T) {
	err := Persistence(context.DeadlineExceeded)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, CodePersistence, err.Code)
	assert.Equal(t, "persistence error", err.Message)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestAsAppError(t *testing.T) {
	require.Nil(t, AsAppError(nil))

	notFound := NotFound("team not found")
	wrapped := fmt.Errorf("lookup: %w", notFound)
	assert.Same(t, notFound, AsAppError(wrapped))

	raw := AsAppError(stderrors.New("connection reset"))
	assert.Equal(t, CodePersistence, raw.Code)
	assert.ErrorIs(t, raw, ErrPersistence)
}
