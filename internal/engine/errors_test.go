package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRequestError_Error tests message formatting.
func TestRequestError_Error(t *testing.T) {
	err := NewDuplicateResourceError("projector")
	assert.Equal(t, "DUPLICATE_RESOURCE: resource requested more than once (resource=projector)", err.Error())

	bare := &RequestError{Code: ErrCodeDuplicateResource, Message: "bad call"}
	assert.Equal(t, "DUPLICATE_RESOURCE: bad call", bare.Error())
}

// TestIsRequestError tests detection through wrapping.
func TestIsRequestError(t *testing.T) {
	err := NewDuplicateResourceError("projector")
	assert.True(t, IsRequestError(err))
	assert.True(t, IsRequestError(fmt.Errorf("validate: %w", err)))
	assert.False(t, IsRequestError(errors.New("other")))
	assert.False(t, IsRequestError(nil))
}

// TestDependencyError tests wrapping and unwrapping.
func TestDependencyError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &DependencyError{Op: "committed_quantity", ResourceID: "projector", Err: cause}

	assert.Equal(t, "dependency committed_quantity failed for resource projector: connection refused", err.Error())
	assert.True(t, IsDependencyError(err))
	assert.True(t, IsDependencyError(fmt.Errorf("schedule: %w", err)))
	require.ErrorIs(t, err, cause)
	assert.False(t, IsDependencyError(cause))
}
