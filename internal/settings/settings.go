// Package settings loads the business-settings seed from an optional file
// and UNIDROP_* environment overrides.
package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Defaults seeds the settings row and the hub table on first start.
type Defaults struct {
	StoreName            string   `mapstructure:"store_name"`
	ContactNumber        string   `mapstructure:"contact_number"`
	Currency             string   `mapstructure:"currency"`
	DeliveryNote         string   `mapstructure:"delivery_note"`
	DefaultMarkupPercent float64  `mapstructure:"default_markup_percent"`
	Hubs                 []string `mapstructure:"-"`
}

// DefaultHubs are created when no hub list is configured.
var DefaultHubs = []string{"Accra", "Kumasi", "Cape Coast", "Tamale", "Takoradi", "Ho"}

// Load reads path (yaml, json or toml; empty skips the file) and applies
// UNIDROP_* env overrides, e.g. UNIDROP_STORE_NAME or UNIDROP_HUBS="Accra,Cape Coast".
func Load(path string) (Defaults, error) {
	v := viper.New()
	v.SetDefault("store_name", "UniHub")
	v.SetDefault("contact_number", "233200000000")
	v.SetDefault("currency", "GHS")
	v.SetDefault("delivery_note", "Delivery within 24 hours on campus.")
	v.SetDefault("default_markup_percent", 30.0)
	v.SetDefault("hubs", DefaultHubs)

	v.SetEnvPrefix("UNIDROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Defaults{}, fmt.Errorf("read settings file %s: %w", path, err)
		}
	}

	var d Defaults
	if err := v.Unmarshal(&d); err != nil {
		return Defaults{}, fmt.Errorf("decode settings: %w", err)
	}
	d.Hubs = hubNames(v.Get("hubs"))
	if len(d.Hubs) == 0 {
		d.Hubs = append([]string(nil), DefaultHubs...)
	}
	if d.DefaultMarkupPercent < 0 {
		return Defaults{}, fmt.Errorf("default_markup_percent must not be negative, got %v", d.DefaultMarkupPercent)
	}
	return d, nil
}

// hubNames accepts a list from a file or a comma-separated env string.
// Hub names may contain spaces, so whitespace splitting is not used.
func hubNames(raw any) []string {
	var parts []string
	switch t := raw.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []string:
		parts = t
	case []any:
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[strings.ToLower(p)] {
			continue
		}
		seen[strings.ToLower(p)] = true
		out = append(out, p)
	}
	return out
}
