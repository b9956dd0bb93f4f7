package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{"missing path", errors.ErrMissingPath, "request_path is required", "[MISSING_PATH] request_path is required"},
		{"not found", errors.ErrNotFound, "Request not found", "[NOT_FOUND] Request not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrRemoteUnavailable, "ignored"))

	base := fmt.Errorf("dial tcp: refused")
	err := errors.Wrapf(base, errors.ErrRemoteUnavailable, "fetch collection %s", "c-1")
	require.NotNil(t, err)
	assert.Equal(t, "[REMOTE_UNAVAILABLE] fetch collection c-1: dial tcp: refused", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New(errors.ErrNotFound, "Item not found"))

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrNotFound, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrNotAFolder, "")))
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "Item not found").WithDetail("path", "Auth/Login")
	assert.Equal(t, "Auth/Login", errors.GetErrorDetails(err)["path"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestIsStructural(t *testing.T) {
	assert.True(t, errors.IsStructural(errors.New(errors.ErrMissingPath, "")))
	assert.True(t, errors.IsStructural(errors.New(errors.ErrNotAFolder, "")))
	assert.False(t, errors.IsStructural(errors.New(errors.ErrRemoteUnavailable, "")))
	assert.False(t, errors.IsStructural(stderrors.New("plain")))
}
