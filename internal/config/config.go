package config

import (
	"os"
	"strconv"
	"time"

	"zunda_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Redis (user cache + rate limiter); empty addr disables both
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Payment gateway
	GatewayShopID    string
	GatewaySecretKey string
	GatewayReturnURL string

	// Withdrawals
	MinWithdrawal int64

	// Rate limits
	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	minWithdrawal := int64(500)
	if v := os.Getenv("MIN_WITHDRAWAL"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			minWithdrawal = n
		}
	}

	apiRateLimit := 100
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := 15 * time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:          port,
		DatabaseURL:      dbURL,
		JWTSecret:        jwtSecret,
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		GatewayShopID:    os.Getenv("GATEWAY_SHOP_ID"),
		GatewaySecretKey: os.Getenv("GATEWAY_SECRET_KEY"),
		GatewayReturnURL: os.Getenv("GATEWAY_RETURN_URL"),
		MinWithdrawal:    minWithdrawal,
		APIRateLimit:     apiRateLimit,
		APIRateWindow:    apiRateWindow,
	}
}
