package repos_test

import (
	"context"
	"testing"

	"campgo/internal/domain"
	"campgo/internal/repos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartEnsureAndSave(t *testing.T) {
	st, _ := memStore(t)
	ctx := context.Background()

	c, err := st.Carts.Ensure(ctx, "u-camper")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	// same cart on the second call
	again, err := st.Carts.Ensure(ctx, "u-camper")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)

	c.Items = []domain.CartItem{
		{ProductID: "stove-mini", Quantity: 2, Price: 49.95, AddedAt: "t1"},
		{ProductID: "tent-2p", Quantity: 1, Price: 116.99, AddedAt: "t2"},
	}
	c.Recompute()
	require.NoError(t, st.InTx(ctx, func(tx *repos.Store) error { return tx.Carts.Save(ctx, c) }))

	got, err := st.Carts.Ensure(ctx, "u-camper")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	// insertion order is preserved
	assert.Equal(t, "stove-mini", got.Items[0].ProductID)
	assert.Equal(t, "tent-2p", got.Items[1].ProductID)
	assert.InDelta(t, 216.89, got.CartTotal, 0.001)

	got.Clear()
	require.NoError(t, st.Carts.Save(ctx, got))
	emptied, err := st.Carts.Ensure(ctx, "u-camper")
	require.NoError(t, err)
	assert.True(t, emptied.Empty())
	assert.Equal(t, got.ID, emptied.ID)
	assert.Zero(t, emptied.CartTotal)
}
