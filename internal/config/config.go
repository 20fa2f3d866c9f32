package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Sales     SalesConfig
	SMTP      SMTPConfig
	WhatsApp  WhatsAppConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name      string
	Env       string
	Port      string
	LogLevel  string
	PublicURL string // storefront base, used in unsubscribe links
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	LogSQL   bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	DraftTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// SalesConfig holds the composer defaults. DefaultTaxRate is the rate applied
// when a draft carries no usable tax rate.
type SalesConfig struct {
	DefaultTaxRate  float64
	SuggestionLimit int
	SearchDebounce  time.Duration
	NumberPrefix    string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

type WhatsAppConfig struct {
	APIURL        string
	Token         string
	PhoneNumberID string
	Concurrency   int
	RatePerSecond float64
	Timeout       time.Duration
}

// PrinterConfig describes the counter receipt printer. Kind is network,
// device or none.
type PrinterConfig struct {
	Kind      string
	Address   string
	Device    string
	Width     int
	StoreName string
	Footer    string
}

// Load reads configuration from .env and the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	// A missing .env is fine; the environment alone is enough.
	_ = v.ReadInConfig()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "atelier-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_PUBLIC_URL", "http://localhost:3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "atelier")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Europe/Istanbul")
	v.SetDefault("DB_LOG_SQL", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DRAFT_TTL_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("SALES_DEFAULT_TAX_RATE", 18)
	v.SetDefault("SALES_SUGGESTION_LIMIT", 5)
	v.SetDefault("SALES_SEARCH_DEBOUNCE_MS", 300)
	v.SetDefault("SALES_NUMBER_PREFIX", "SAT")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "Atelier")
	v.SetDefault("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0")
	v.SetDefault("WHATSAPP_CONCURRENCY", 4)
	v.SetDefault("WHATSAPP_RATE_PER_SECOND", 20)
	v.SetDefault("WHATSAPP_TIMEOUT_SECONDS", 15)
	v.SetDefault("PRINTER_KIND", "none")
	v.SetDefault("PRINTER_WIDTH", 48)
	v.SetDefault("PRINTER_STORE_NAME", "Atelier")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:      v.GetString("APP_NAME"),
			Env:       v.GetString("APP_ENV"),
			Port:      v.GetString("APP_PORT"),
			LogLevel:  v.GetString("LOG_LEVEL"),
			PublicURL: v.GetString("APP_PUBLIC_URL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
			LogSQL:   v.GetBool("DB_LOG_SQL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			DraftTTL: time.Duration(v.GetInt("DRAFT_TTL_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Sales: SalesConfig{
			DefaultTaxRate:  v.GetFloat64("SALES_DEFAULT_TAX_RATE"),
			SuggestionLimit: v.GetInt("SALES_SUGGESTION_LIMIT"),
			SearchDebounce:  time.Duration(v.GetInt("SALES_SEARCH_DEBOUNCE_MS")) * time.Millisecond,
			NumberPrefix:    v.GetString("SALES_NUMBER_PREFIX"),
		},
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Username:  v.GetString("SMTP_USERNAME"),
			Password:  v.GetString("SMTP_PASSWORD"),
			FromName:  v.GetString("SMTP_FROM_NAME"),
			FromEmail: v.GetString("SMTP_FROM_EMAIL"),
		},
		WhatsApp: WhatsAppConfig{
			APIURL:        v.GetString("WHATSAPP_API_URL"),
			Token:         v.GetString("WHATSAPP_TOKEN"),
			PhoneNumberID: v.GetString("WHATSAPP_PHONE_NUMBER_ID"),
			Concurrency:   v.GetInt("WHATSAPP_CONCURRENCY"),
			RatePerSecond: v.GetFloat64("WHATSAPP_RATE_PER_SECOND"),
			Timeout:       time.Duration(v.GetInt("WHATSAPP_TIMEOUT_SECONDS")) * time.Second,
		},
		Printer: PrinterConfig{
			Kind:      v.GetString("PRINTER_KIND"),
			Address:   v.GetString("PRINTER_ADDRESS"),
			Device:    v.GetString("PRINTER_DEVICE"),
			Width:     v.GetInt("PRINTER_WIDTH"),
			StoreName: v.GetString("PRINTER_STORE_NAME"),
			Footer:    v.GetString("PRINTER_FOOTER"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.Sales.DefaultTaxRate < 0 || c.Sales.DefaultTaxRate > 100 {
		return fmt.Errorf("SALES_DEFAULT_TAX_RATE must be between 0 and 100, got %v", c.Sales.DefaultTaxRate)
	}
	if c.Sales.SuggestionLimit < 1 {
		return fmt.Errorf("SALES_SUGGESTION_LIMIT must be positive, got %d", c.Sales.SuggestionLimit)
	}
	if c.Sales.SearchDebounce < 0 {
		return fmt.Errorf("SALES_SEARCH_DEBOUNCE_MS must not be negative")
	}
	if c.RateLimit.Duration < 1 {
		return fmt.Errorf("RATE_LIMIT_DURATION must be positive, got %d", c.RateLimit.Duration)
	}
	if c.WhatsApp.Concurrency < 1 {
		c.WhatsApp.Concurrency = 1
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
