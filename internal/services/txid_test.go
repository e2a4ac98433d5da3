package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionID(t *testing.T) {
	at := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

	id, err := NewTransactionID("credit_card", "64f1c0ffee1234abcd", at)
	require.NoError(t, err)
	assert.Len(t, id, 2+6+6+8)
	assert.Regexp(t, `^CR25110334abcd[0-9a-f]{8}$`, id)

	other, err := NewTransactionID("credit_card", "64f1c0ffee1234abcd", at)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	short, err := NewTransactionID("c", "u1", at)
	require.NoError(t, err)
	assert.Regexp(t, `^C251103u1[0-9a-f]{8}$`, short)
}
