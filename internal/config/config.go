package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Market   MarketConfig
	Access   AccessConfig
	Payment  PaymentConfig
	KV       KVConfig
	Telegram TelegramConfig
	Logging  LoggingConfig
	Tasks    TasksConfig
	Analysis AnalysisConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketConfig describes the market-data provider and the polling schedule.
type MarketConfig struct {
	BaseURL           string
	FetchInterval     time.Duration
	RequestTimeout    time.Duration
	RequestsPerMinute int
	ReferenceAssetID  string
}

// AccessConfig holds the premium gate settings.
type AccessConfig struct {
	Passcode          string
	FernetKey         string
	FreePositionLimit int
	FreeAlertLimit    int
}

// PaymentConfig configures the simulated payment collaborator.
type PaymentConfig struct {
	Amount   decimal.Decimal
	Currency string
	Delay    time.Duration
	Outcome  string // success or failure
}

// KVConfig selects the durable key-value backend.
type KVConfig struct {
	Backend       string // sqlite or redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// TelegramConfig enables alert notifications over Telegram when Token is set.
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
	Env   string
}

// TasksConfig holds task store settings
type TasksConfig struct {
	SeedSamples bool
}

// AnalysisConfig holds the simulated analysis settings
type AnalysisConfig struct {
	StepDelay time.Duration
	Retention time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/crypto_dashboard.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080,http://localhost")),
		},
		Market: MarketConfig{
			BaseURL:          getEnv("MARKET_BASE_URL", "https://api.coingecko.com/api/v3"),
			ReferenceAssetID: getEnv("MARKET_REFERENCE_ASSET", "bitcoin"),
		},
		Access: AccessConfig{
			Passcode:  getEnv("ACCESS_PASSCODE", ""),
			FernetKey: getEnv("ACCESS_FERNET_KEY", ""),
		},
		Payment: PaymentConfig{
			Currency: getEnv("PAYMENT_CURRENCY", "USD"),
			Outcome:  getEnv("PAYMENT_SIMULATED_OUTCOME", "success"),
		},
		KV: KVConfig{
			Backend:       getEnv("KV_BACKEND", "sqlite"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   getEnv("APP_ENV", "development"),
		},
	}

	var err error
	if config.Market.FetchInterval, err = getDuration("MARKET_FETCH_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if config.Market.RequestTimeout, err = getDuration("MARKET_REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if config.Market.RequestsPerMinute, err = getInt("MARKET_REQUESTS_PER_MINUTE", 10); err != nil {
		return nil, err
	}
	if config.Access.FreePositionLimit, err = getInt("FREE_POSITION_LIMIT", 3); err != nil {
		return nil, err
	}
	if config.Access.FreeAlertLimit, err = getInt("FREE_ALERT_LIMIT", 5); err != nil {
		return nil, err
	}
	if config.Payment.Delay, err = getDuration("PAYMENT_SIMULATED_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if config.KV.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.Analysis.StepDelay, err = getDuration("ANALYSIS_STEP_DELAY", time.Second); err != nil {
		return nil, err
	}
	if config.Analysis.Retention, err = getDuration("ANALYSIS_RETENTION", time.Hour); err != nil {
		return nil, err
	}
	if config.Tasks.SeedSamples, err = getBool("TASKS_SEED_SAMPLES", false); err != nil {
		return nil, err
	}

	amount := getEnv("PAYMENT_AMOUNT", "9.99")
	if config.Payment.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_AMOUNT %q: %w", amount, err)
	}

	if chatID := getEnv("TELEGRAM_CHAT_ID", ""); chatID != "" {
		if config.Telegram.ChatID, err = strconv.ParseInt(chatID, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatID, err)
		}
	}

	switch config.KV.Backend {
	case "sqlite", "redis":
	default:
		return nil, fmt.Errorf("invalid KV_BACKEND %q: must be sqlite or redis", config.KV.Backend)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return d, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
