package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound))
	assert.True(t, IsNotFound(fmt.Errorf("post abc: %w", NotFound)))
	assert.True(t, IsNotFound(NotFoundError("POST_NOT_FOUND")))
	assert.False(t, IsNotFound(BadRequest("INVALID_EMAIL")))
	assert.False(t, IsNotFound(stderrors.New("connection refused")))
	assert.False(t, IsNotFound(nil))
}

func TestIsDuplicateEmail(t *testing.T) {
	assert.True(t, IsDuplicateEmail(fmt.Errorf("insert user: %w", ErrDuplicateEmail)))
	assert.False(t, IsDuplicateEmail(NotFound))
}

func TestErrorWithStatusCode(t *testing.T) {
	err := BadRequest("INVALID_PAGINATION")
	assert.Equal(t, "INVALID_PAGINATION", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}
