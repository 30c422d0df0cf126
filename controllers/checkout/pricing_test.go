package checkoutControllers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

func testShipping() config.Shipping {
	return config.Shipping{
		HomeFee:          2000,
		DomesticFee:      5000,
		InternationalFee: 15000,
		HomeCountry:      "Nigeria",
		HomeStates:       []string{"Abuja", "Federal Capital Territory", "FCT"},
	}
}

func lagosAddress() *models.Address {
	return &models.Address{
		Street:     "1 Marina Rd",
		City:       "Lagos",
		State:      "Lagos",
		PostalCode: "100001",
		Country:    "Nigeria",
		Phone:      "+2348000000000",
	}
}

func teeLines(price int64, qty int) []models.CartItem {
	return []models.CartItem{{
		Product:  models.Product{Name: "Tee", Price: decimal.NewFromInt(price)},
		Quantity: qty,
	}}
}

func TestPriceDomesticOrder(t *testing.T) {
	totals := Price(teeLines(5000, 2), lagosAddress(), testShipping())

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(10000)), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.ShippingFee.Equal(decimal.NewFromInt(5000)), "fee %s", totals.ShippingFee)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(15000)), "total %s", totals.Total)
}

func TestPriceHomeStateOrder(t *testing.T) {
	addr := lagosAddress()
	addr.State = "FCT"
	totals := Price(teeLines(5000, 1), addr, testShipping())

	assert.True(t, totals.ShippingFee.Equal(decimal.NewFromInt(2000)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(7000)))
}

func TestPriceInternationalOrder(t *testing.T) {
	addr := lagosAddress()
	addr.Country = "Ghana"
	addr.State = "Accra"
	totals := Price(teeLines(5000, 1), addr, testShipping())

	assert.True(t, totals.ShippingFee.Equal(decimal.NewFromInt(15000)))
}

func TestPriceWithoutAddressUsesDefaultTier(t *testing.T) {
	totals := Price(teeLines(5000, 1), nil, testShipping())
	assert.True(t, totals.ShippingFee.Equal(decimal.NewFromInt(15000)))

	incomplete := &models.Address{Country: "Nigeria"}
	totals = Price(teeLines(5000, 1), incomplete, testShipping())
	assert.True(t, totals.ShippingFee.Equal(decimal.NewFromInt(15000)))
}

func TestPriceEmptyCart(t *testing.T) {
	totals := Price(nil, lagosAddress(), testShipping())

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(5000)))
}

func TestSubtotalMultipleLines(t *testing.T) {
	items := []models.CartItem{
		{Product: models.Product{Price: decimal.NewFromInt(5000)}, Quantity: 2},
		{Product: models.Product{Price: decimal.RequireFromString("1999.50")}, Quantity: 3},
	}
	assert.True(t, Subtotal(items).Equal(decimal.RequireFromString("15998.50")))
}
