package config

import (
	"log"
	"os"
	"strconv"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout int
	Timeout     int
	Prefix      string
}

type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	PublicKey string
	Timeout   int
}

type S3Config struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	Prefix          string
}

type AppConfig struct {
	Port              string
	Postgres          PostgresConfig
	Redis             RedisConfig
	Paystack          PaystackConfig
	S3                S3Config
	ReceiptDir        string
	FilesPublicPrefix string
	ExternalURL       string
	IntentTTLMinutes  int
	DashboardTTL      int
	ReceiptMaxAgeMin  int
	TokenTTLHours     int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int value %q: %v", s, err)
	}
	return i
}

func mustBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Fatalf("invalid bool value %q: %v", s, err)
	}
	return b
}

func Load() AppConfig {
	return AppConfig{
		Port: getenv("APP_PORT", "8020"),
		Postgres: PostgresConfig{
			Host:     getenv("PG_HOST", "127.0.0.1"),
			Port:     mustAtoi(getenv("PG_PORT", "5432")),
			User:     getenv("PG_USER", "root"),
			Password: getenv("PG_PASSWORD", ""),
			DBName:   getenv("PG_DB", "nacospay"),
			SSLMode:  getenv("PG_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:        getenv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    getenv("REDIS_PASSWORD", ""),
			DB:          mustAtoi(getenv("REDIS_DB", "0")),
			MaxRetries:  mustAtoi(getenv("REDIS_MAX_RETRIES", "5")),
			DialTimeout: mustAtoi(getenv("REDIS_DIAL_TIMEOUT", "10")),
			Timeout:     mustAtoi(getenv("REDIS_TIMEOUT", "5")),
			Prefix:      getenv("REDIS_PREFIX", "nacospay_"),
		},
		Paystack: PaystackConfig{
			BaseURL:   getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			SecretKey: getenv("PAYSTACK_SECRET_KEY", ""),
			PublicKey: getenv("PAYSTACK_PUBLIC_KEY", ""),
			Timeout:   mustAtoi(getenv("PAYSTACK_TIMEOUT", "15")),
		},
		S3: S3Config{
			Enabled:         mustBool(getenv("S3_ENABLED", "false")),
			Endpoint:        getenv("S3_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getenv("S3_ACCESS_KEY", "minio"),
			SecretAccessKey: getenv("S3_SECRET_KEY", "minio123"),
			Bucket:          getenv("S3_BUCKET", "receipts"),
			Region:          getenv("S3_REGION", "us-east-1"),
			UseSSL:          mustBool(getenv("S3_USE_SSL", "false")),
			Prefix:          getenv("S3_PREFIX", ""),
		},
		ReceiptDir:        getenv("RECEIPT_DIR", "./receipts"),
		FilesPublicPrefix: getenv("FILES_PUBLIC_PREFIX", "/files"),
		ExternalURL:       getenv("EXTERNAL_URL", ""),
		IntentTTLMinutes:  mustAtoi(getenv("PAYMENT_INTENT_TTL_MINUTES", "30")),
		DashboardTTL:      mustAtoi(getenv("DASHBOARD_CACHE_TTL_SECONDS", "60")),
		ReceiptMaxAgeMin:  mustAtoi(getenv("RECEIPT_MAX_AGE_MINUTES", "60")),
		TokenTTLHours:     mustAtoi(getenv("TOKEN_TTL_HOURS", "72")),
	}
}
