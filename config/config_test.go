package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShipping() Shipping {
	return Shipping{
		HomeFee:          2000,
		DomesticFee:      5000,
		InternationalFee: 15000,
		HomeCountry:      "Nigeria",
		HomeStates:       []string{"Abuja", "Federal Capital Territory", "FCT"},
	}
}

func TestShippingFeeTiers(t *testing.T) {
	ship := testShipping()

	tests := []struct {
		name    string
		country string
		state   string
		want    int64
	}{
		{"home state", "Nigeria", "Abuja", 2000},
		{"home state alias", "Nigeria", "FCT", 2000},
		{"home state long form", "Nigeria", "Federal Capital Territory", 2000},
		{"domestic", "Nigeria", "Lagos", 5000},
		{"international", "Ghana", "Accra", 15000},
		{"case insensitive country", "nIgErIa", "abuja", 2000},
		{"whitespace trimmed", " Nigeria ", " Lagos ", 5000},
		{"empty destination", "", "", 15000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ship.Fee(tt.country, tt.state)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s, want %d", got, tt.want)
		})
	}
}

func TestShippingDefaultFee(t *testing.T) {
	ship := testShipping()
	assert.True(t, ship.DefaultFee().Equal(decimal.NewFromInt(15000)))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yaml := `
app:
  name: storefront
  port: "9090"
shipping:
  home_fee: 2000
  domestic_fee: 5000
  international_fee: 15000
  home_country: Nigeria
  home_states: [Abuja, Federal Capital Territory, FCT]
payment:
  currency: NGN
  base_url: https://api.flutterwave.com
  timeout: 15s
mail:
  from: orders@example.com
  from_name: Storefront
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(yaml), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.App.Name)
	assert.Equal(t, "NGN", cfg.Payment.Currency)
	assert.Equal(t, int64(5000), cfg.Shipping.DomesticFee)
	assert.Equal(t, "orders@example.com", cfg.Mail.From)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := `
shipping:
  home_fee: 2000
payment:
  currency: NGN
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(yaml), 0644))

	t.Setenv("SBC_SHIPPING__HOME_FEE", "2500")
	t.Setenv("SBC_PAYMENT__CURRENCY", "USD")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, int64(2500), cfg.Shipping.HomeFee)
	assert.Equal(t, "USD", cfg.Payment.Currency)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
