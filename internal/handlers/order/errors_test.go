package order

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"miam_back_end/internal/lifecycle"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{lifecycle.ErrNotFound, http.StatusNotFound, "NotFound"},
		{lifecycle.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{lifecycle.ErrOrderClosed, http.StatusConflict, "OrderClosed"},
		{lifecycle.ErrInvalidTransition, http.StatusConflict, "InvalidTransition"},
		{lifecycle.ErrInvalidAssignment, http.StatusConflict, "InvalidAssignment"},
		{lifecycle.ErrConcurrentModification, http.StatusConflict, "ConcurrentModification"},
		{errors.New("panne quelconque"), http.StatusInternalServerError, "Internal"},
	}

	for _, tc := range cases {
		status, kind := classifyError(tc.err)
		assert.Equal(t, tc.status, status, "statut pour %v", tc.err)
		assert.Equal(t, tc.kind, kind, "kind pour %v", tc.err)
	}
}

func TestClassifyErrorUnwrapsContext(t *testing.T) {
	wrapped := fmt.Errorf("commande MIAM-123: %w", lifecycle.ErrConcurrentModification)
	status, kind := classifyError(wrapped)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ConcurrentModification", kind)
}
