package enums

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductCategoryIgnoresCase(t *testing.T) {
	got, err := ParseProductCategory(" vegetables ")
	require.NoError(t, err)
	assert.Equal(t, ProductCategoryVegetables, got)

	_, err = ParseProductCategory("Meat")
	require.Error(t, err)
}

func TestPriceRangeContains(t *testing.T) {
	cases := []struct {
		rng   PriceRange
		price string
		want  bool
	}{
		{PriceRangeAll, "999", true},
		{PriceRangeUnder50, "0", true},
		{PriceRangeUnder50, "49.99", true},
		{PriceRangeUnder50, "50", false},
		{PriceRange50To100, "50", true},
		{PriceRange50To100, "100", false},
		{PriceRange100To200, "199.99", true},
		{PriceRange100To200, "200", false},
		{PriceRangeOver200, "200", true},
		{PriceRangeOver200, "5000", true},
	}
	for _, tc := range cases {
		got := tc.rng.Contains(decimal.RequireFromString(tc.price))
		assert.Equalf(t, tc.want, got, "%s contains %s", tc.rng, tc.price)
	}
}

func TestParsePriceRangeAndSortDefaults(t *testing.T) {
	rng, err := ParsePriceRange("")
	require.NoError(t, err)
	assert.Equal(t, PriceRangeAll, rng)

	sort, err := ParseCatalogSort("")
	require.NoError(t, err)
	assert.Equal(t, CatalogSortName, sort)

	_, err = ParseCatalogSort("popularity")
	require.Error(t, err)
	_, err = ParsePriceRange("10-20")
	require.Error(t, err)
}

func TestOrderStatusHelpers(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
	assert.True(t, OrderStatusNew.IsPending())
	assert.True(t, OrderStatusProcessing.IsPending())
	assert.False(t, OrderStatusShipped.IsPending())

	got, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, got)
}

func TestDeliverySlotLabels(t *testing.T) {
	slot, err := ParseDeliverySlot("Evening")
	require.NoError(t, err)
	assert.Equal(t, "Evening (5:00 PM - 8:00 PM)", slot.Label())

	slot, err = ParseDeliverySlot("")
	require.NoError(t, err)
	assert.Equal(t, DeliverySlotMorning, slot)

	_, err = ParseDeliverySlot("midnight")
	require.Error(t, err)
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Cash on Delivery", PaymentLabel(PaymentMethodCOD, ""))
	assert.Equal(t, "Online Payment (upi)", PaymentLabel(PaymentMethodOnline, OnlinePaymentUPI))
}
