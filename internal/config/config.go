package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	POS         POSConfig
	StockPolicy StockPolicy
	Printer     PrinterConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// StorageConfig selects where state snapshots are kept: "memory" or "postgres".
type StorageConfig struct {
	Driver string
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

type POSConfig struct {
	StoreName         string
	TaxRate           float64
	TaxLabel          string
	TaxEnabled        bool
	Timezone          string
	Denominations     []float64
	LowStockThreshold int
	ManagerPinHash    string
	CatalogFile       string
	NodeID            int64
}

// StockPolicy controls whether stock comes back when a sold line is reversed.
// Both are off unless configured.
type StockPolicy struct {
	RestoreOnRefund bool
	RestoreOnUndo   bool
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Prefix string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults(viper.GetViper())
	return fromViper(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "stall-pos")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "stall_pos")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "America/Toronto")
	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("POS_STORE_NAME", "Market Stall")
	v.SetDefault("POS_TAX_RATE", 0.14)
	v.SetDefault("POS_TAX_LABEL", "HST")
	v.SetDefault("POS_TAX_ENABLED", true)
	v.SetDefault("POS_TIMEZONE", "Local")
	v.SetDefault("POS_DENOMINATIONS", "20,10,5,2,1,0.25")
	v.SetDefault("POS_LOW_STOCK_THRESHOLD", 3)
	v.SetDefault("POS_MANAGER_PIN_HASH", "")
	v.SetDefault("POS_CATALOG_FILE", "")
	v.SetDefault("POS_NODE_ID", 1)
	v.SetDefault("STOCK_RESTORE_ON_REFUND", false)
	v.SetDefault("STOCK_RESTORE_ON_UNDO", false)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_WIDTH", 32)
	v.SetDefault("PRINTER_TIMEOUT_SECONDS", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_PREFIX", "pos")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
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
		POS: POSConfig{
			StoreName:         v.GetString("POS_STORE_NAME"),
			TaxRate:           v.GetFloat64("POS_TAX_RATE"),
			TaxLabel:          v.GetString("POS_TAX_LABEL"),
			TaxEnabled:        v.GetBool("POS_TAX_ENABLED"),
			Timezone:          v.GetString("POS_TIMEZONE"),
			Denominations:     parseDenominations(v.GetString("POS_DENOMINATIONS")),
			LowStockThreshold: v.GetInt("POS_LOW_STOCK_THRESHOLD"),
			ManagerPinHash:    v.GetString("POS_MANAGER_PIN_HASH"),
			CatalogFile:       v.GetString("POS_CATALOG_FILE"),
			NodeID:            v.GetInt64("POS_NODE_ID"),
		},
		StockPolicy: StockPolicy{
			RestoreOnRefund: v.GetBool("STOCK_RESTORE_ON_REFUND"),
			RestoreOnUndo:   v.GetBool("STOCK_RESTORE_ON_UNDO"),
		},
		Printer: PrinterConfig{
			Type:    v.GetString("PRINTER_TYPE"),
			USBPath: v.GetString("PRINTER_USB_PATH"),
			Address: v.GetString("PRINTER_ADDRESS"),
			Width:   v.GetInt("PRINTER_WIDTH"),
			Timeout: time.Duration(v.GetInt("PRINTER_TIMEOUT_SECONDS")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Metrics: MetricsConfig{
			Prefix: v.GetString("METRICS_PREFIX"),
		},
	}
}

// Location resolves POS.Timezone. Unknown zones fall back to time.Local.
func (c *POSConfig) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown POS_TIMEZONE %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
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

// parseDenominations reads a comma separated list, skipping anything that is
// not a positive number.
func parseDenominations(raw string) []float64 {
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || f <= 0 {
			continue
		}
		out = append(out, f)
	}
	return out
}
