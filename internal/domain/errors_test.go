package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/caja-registradora/internal/domain"
)

func TestCode(t *testing.T) {
	assert.Equal(t, "", domain.Code(nil))
	assert.Equal(t, "VALIDATION", domain.Code(fmt.Errorf("precio: %w", domain.ErrValidation)))
	assert.Equal(t, "INSUFFICIENT_STOCK", domain.Code(domain.ErrInsufficientStock))
	assert.Equal(t, "NOT_FOUND", domain.Code(domain.ErrNotFound))
	assert.Equal(t, "EMPTY_CART", domain.Code(domain.ErrEmptyCart))
	assert.Equal(t, "PERSISTENCE", domain.Code(domain.AsPersistence(errors.New("disco"))))
	assert.Equal(t, "INTERNAL", domain.Code(errors.New("otro")))
}

func TestAsPersistence_NoEnvuelveDosVeces(t *testing.T) {
	err := domain.AsPersistence(errors.New("disco lleno"))
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, err, domain.AsPersistence(err))
	assert.NoError(t, domain.AsPersistence(nil))
}
