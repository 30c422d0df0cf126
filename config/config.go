package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

// Config holds the static configuration loaded once at process start.
// Country/state tables and fee tiers live here instead of being
// scattered through handlers.
type Config struct {
	App struct {
		Name string `koanf:"name"`
		Port string `koanf:"port"`
	} `koanf:"app"`

	Shipping Shipping `koanf:"shipping"`
	Payment  Payment  `koanf:"payment"`

	Mail Mail `koanf:"mail"`
}

// Mail names the confirmation sender.
type Mail struct {
	From     string `koanf:"from"`
	FromName string `koanf:"from_name"`
}

// Shipping is the tiered fee table. Fees are whole currency units.
type Shipping struct {
	HomeFee          int64    `koanf:"home_fee"`
	DomesticFee      int64    `koanf:"domestic_fee"`
	InternationalFee int64    `koanf:"international_fee"`
	HomeCountry      string   `koanf:"home_country"`
	HomeStates       []string `koanf:"home_states"`
}

// Payment holds the gateway settings; the settlement currency is the
// single currency reconciliation will accept.
type Payment struct {
	Currency    string        `koanf:"currency"`
	BaseURL     string        `koanf:"base_url"`
	RedirectURL string        `koanf:"redirect_url"`
	Timeout     time.Duration `koanf:"timeout"`
}

// Fee returns the shipping fee for a destination. Unknown or incomplete
// destinations get the international tier, which doubles as the default
// before an address is on file.
func (s Shipping) Fee(country, state string) decimal.Decimal {
	if !strings.EqualFold(strings.TrimSpace(country), s.HomeCountry) {
		return decimal.NewFromInt(s.InternationalFee)
	}
	state = strings.TrimSpace(state)
	for _, hs := range s.HomeStates {
		if strings.EqualFold(state, hs) {
			return decimal.NewFromInt(s.HomeFee)
		}
	}
	return decimal.NewFromInt(s.DomesticFee)
}

// DefaultFee is the fee charged when no address is on file yet.
func (s Shipping) DefaultFee() decimal.Decimal {
	return decimal.NewFromInt(s.InternationalFee)
}

// Load reads pathDir/base.yaml and applies SBC_* environment overrides
// (nested keys separated by __, e.g. SBC_PAYMENT__BASE_URL).
func Load(pathDir string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base config: %w", err)
	}

	if err := k.Load(env.Provider("SBC_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "SBC_")
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
