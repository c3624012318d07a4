package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrItemBusy, "item is busy")
	assert.Equal(t, ErrItemBusy, err.Code)
	assert.Equal(t, "item is busy", err.Message)
	assert.Equal(t, "[ITEM_BUSY] item is busy", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrItemNotFound, "no item %q", "sodium.jar")
	assert.Equal(t, `[ITEM_NOT_FOUND] no item "sodium.jar"`, err.Error())
}

func TestWrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(inner, ErrRegistryFetch, "modrinth version listing failed")
	require.NotNil(t, err)
	assert.Equal(t, ErrRegistryFetch, err.Code)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrRegistryFetch, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrRegistryFetch, "ignored %d", 1))
}

func TestIsErrorCode(t *testing.T) {
	err := New(ErrFileToggle, "rename failed")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, IsErrorCode(err, ErrFileToggle))
	assert.True(t, IsErrorCode(wrapped, ErrFileToggle))
	assert.False(t, IsErrorCode(err, ErrFileDelete))
	assert.False(t, IsErrorCode(errors.New("plain"), ErrFileToggle))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrItemBusy, GetErrorCode(New(ErrItemBusy, "")))
	assert.Equal(t, ErrUnknown, GetErrorCode(errors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrFileDelete, "delete failed").
		WithDetail("filename", "sodium.jar").
		WithDetail("profile", "main")
	assert.Equal(t, "sodium.jar", err.Details["filename"])
	assert.Equal(t, "main", err.Details["profile"])
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	a := New(ErrItemBusy, "toggling")
	b := New(ErrItemBusy, "deleting")
	assert.ErrorIs(t, a, b)
}
