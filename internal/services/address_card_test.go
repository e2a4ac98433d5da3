package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults[T any](items []T, isDefault func(T) bool) int {
	n := 0
	for _, it := range items {
		if isDefault(it) {
			n++
		}
	}
	return n
}

func TestAddresses_SingleDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.withAddress(t, camper)
	assert.True(t, first.IsDefault, "first address becomes default")
	assert.Equal(t, "Vietnam", first.Country)

	second, err := f.addrs.Create(ctx, camper, services.AddressInput{
		FullName: "Camper Two", Phone: "0907654321", Street: "9 Lake St", City: "Hue", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	list, err := f.addrs.List(ctx, camper)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, defaults(list, func(a domain.Address) bool { return a.IsDefault }))

	_, err = f.addrs.SetDefault(ctx, camper, first.ID)
	require.NoError(t, err)
	def, err := f.store.Addresses.Default(ctx, camper)
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.ID)

	// deleting the default promotes the oldest remaining one
	require.NoError(t, f.addrs.Delete(ctx, camper, first.ID))
	def, err = f.store.Addresses.Default(ctx, camper)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	err = f.addrs.Delete(ctx, "u-owner", second.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAddresses_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.withAddress(t, camper)

	got, err := f.addrs.Update(ctx, camper, a.ID, services.AddressInput{
		FullName: "Camper One", Phone: "0901234567", Street: "2 Pine Rd", City: "Da Lat", Country: "VN",
	})
	require.NoError(t, err)
	assert.Equal(t, "2 Pine Rd", got.Street)
	assert.Equal(t, "VN", got.Country)
	assert.True(t, got.IsDefault)

	_, err = f.addrs.Update(ctx, camper, "missing", services.AddressInput{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCards_DefaultsAndUniqueNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.withCard(t, camper, "4111111111111111")
	assert.True(t, first.IsDefault)
	second := f.withCard(t, camper, "5500000000000004")
	assert.False(t, second.IsDefault)

	_, err := f.cards.Create(ctx, "u-owner", services.CardInput{
		Name: "OWNER", Number: "4111111111111111", ExpMonth: "01", ExpYear: "30", CVC: "999",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = f.cards.Update(ctx, camper, second.ID, services.CardInput{
		Name: "CAMPER", Number: "4111111111111111", ExpMonth: "01", ExpYear: "30", CVC: "999",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = f.cards.SetDefault(ctx, camper, second.ID)
	require.NoError(t, err)
	list, err := f.cards.List(ctx, camper)
	require.NoError(t, err)
	assert.Equal(t, 1, defaults(list, func(c domain.Card) bool { return c.IsDefault }))

	require.NoError(t, f.cards.Delete(ctx, camper, second.ID))
	def, err := f.store.Cards.Default(ctx, camper)
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.ID)
}

func TestCards_JSONIsMasked(t *testing.T) {
	f := newFixture(t)
	c := f.withCard(t, camper, "4111111111111111")

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "4111111111111111")
	assert.Contains(t, string(b), "1111")
	assert.NotContains(t, string(b), `"123"`)
}
