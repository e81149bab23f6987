package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhabuon/ToolTinhLai/internal/advisor"
	"github.com/nhabuon/ToolTinhLai/internal/inventory"
	"github.com/nhabuon/ToolTinhLai/internal/pricing"
	"github.com/nhabuon/ToolTinhLai/internal/repository"
	"github.com/nhabuon/ToolTinhLai/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", inventory.ErrInvalidParams), http.StatusBadRequest},
		{pricing.ErrInvalidQuote, http.StatusBadRequest},
		{service.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("product 3: %w", repository.ErrNotFound), http.StatusNotFound},
		{repository.ErrDuplicateName, http.StatusConflict},
		{inventory.ErrInsufficientStock, http.StatusConflict},
		{advisor.ErrDisabled, http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
