package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "atelier-api", cfg.App.Name)
	assert.Equal(t, 18.0, cfg.Sales.DefaultTaxRate)
	assert.Equal(t, 5, cfg.Sales.SuggestionLimit)
	assert.Equal(t, 300*time.Millisecond, cfg.Sales.SearchDebounce)
	assert.Equal(t, 24*time.Hour, cfg.Redis.DraftTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "none", cfg.Printer.Kind)
	assert.Equal(t, 48, cfg.Printer.Width)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SALES_DEFAULT_TAX_RATE", "20")
	t.Setenv("SALES_SEARCH_DEBOUNCE_MS", "450")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.Sales.DefaultTaxRate)
	assert.Equal(t, 450*time.Millisecond, cfg.Sales.SearchDebounce)
}

func TestValidateRejectsTaxRateOutOfRange(t *testing.T) {
	t.Setenv("SALES_DEFAULT_TAX_RATE", "120")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "atelier", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=atelier port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
