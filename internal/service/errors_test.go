package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	err := newError(ErrConflict, "Nomor WhatsApp 628123 sudah terdaftar")

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Nomor WhatsApp 628123 sudah terdaftar", err.Error())

	wrapped := fmt.Errorf("submit: %w", err)
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, "Nomor WhatsApp 628123 sudah terdaftar", Message(wrapped))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
