package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWalksWrappedChain(t *testing.T) {
	err := fmt.Errorf("create order: %w", Validation("no default address"))

	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, Is(err, KindValidation))
	assert.Equal(t, "no default address", Message(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:          http.StatusNotFound,
		KindValidation:        http.StatusBadRequest,
		KindInsufficientStock: http.StatusBadRequest,
		KindConflict:          http.StatusConflict,
		KindUnauthorized:      http.StatusUnauthorized,
		KindForbidden:         http.StatusForbidden,
		KindInternal:          http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status(), k.String())
	}
}

func TestInternalHidesDetail(t *testing.T) {
	err := Internal(sql.ErrConnDone, "load cart")

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "load cart")
	assert.NotContains(t, Message(err), "load cart")
}

func TestInsufficientStockNamesProduct(t *testing.T) {
	assert.Equal(t, "insufficient stock for product Tent 2P", InsufficientStock("Tent 2P").Message)
	assert.Contains(t, InsufficientStock("").Message, "unknown product")
}
