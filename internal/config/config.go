package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DataDir       string
	PublicDir     string
	QRDir         string
	ProductImgDir string

	StoreDriver string // "json" or "sqlite"
	SQLitePath  string

	// SessionTTL of zero disables expiry; sessions then live until
	// logout removes them.
	SessionTTL time.Duration

	// OrderStatusStrict rejects transitions outside the status machine.
	// Turn it off to accept any status string verbatim.
	OrderStatusStrict bool

	GoogleClientID string
	KafkaAddress   string
	LogLevel       string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		Port:              getenv("PORT", "3000"),
		DataDir:           getenv("DATA_DIR", "data"),
		PublicDir:         getenv("PUBLIC_DIR", "public"),
		QRDir:             getenv("QR_DIR", "img_qr"),
		ProductImgDir:     getenv("PRODUCT_IMG_DIR", "img_sanpham"),
		StoreDriver:       getenv("STORE_DRIVER", "json"),
		SQLitePath:        getenv("SQLITE_PATH", "data/hifood.db"),
		SessionTTL:        getDuration("SESSION_TTL", 0),
		OrderStatusStrict: getBool("ORDER_STATUS_STRICT", true),
		GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
		KafkaAddress:      os.Getenv("KAFKA_ADDRESS"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
