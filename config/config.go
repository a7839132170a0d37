package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"lootradar/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Telegram configuration
	TelegramToken  string
	TelegramChatID int64

	// Scan configuration
	CategoryURLs []string
	ScanInterval time.Duration
	ScanJitter   time.Duration

	// Classification thresholds
	GeneralGlitchPercent int
	GeneralGlitchAmount  int
	SpecialBrandPercent  int
	SpecialBrandAmount   int
	PremiumBrandPercent  int
	PremiumBrandAmount   int
	CouponMinAmount      int

	// Brand and keyword lists
	SpecialBrands  []string
	PremiumBrands  []string
	CouponKeywords []string

	// Deduplication
	DedupCapacity int

	// Offers API; %s is replaced with the numeric product id
	OffersAPIURL string

	// Base URL used to resolve relative product links
	ProductBaseURL string

	// Price history (empty path disables price-drop detection)
	HistoryDBPath    string
	PriceDropPercent int

	// Redis alert stream (empty addr disables the mirror)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Memcache (fetch rate-limit blocks)
	MemcacheAddr string

	// HTTP server
	ListenAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	chatID, _ := strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)
	scanInterval, _ := strconv.Atoi(getEnv("SCAN_INTERVAL_SECONDS", "60"))
	scanJitter, _ := strconv.Atoi(getEnv("SCAN_JITTER_SECONDS", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	return Config{
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: chatID,

		CategoryURLs: getEnvList("CATEGORY_URLS", []string{
			"https://www.myntra.com/men-tshirts",
			"https://www.myntra.com/casual-shoes",
			"https://www.myntra.com/watches",
		}),
		ScanInterval: time.Duration(scanInterval) * time.Second,
		ScanJitter:   time.Duration(scanJitter) * time.Second,

		GeneralGlitchPercent: getEnvInt("GENERAL_GLITCH_PERCENT", 80),
		GeneralGlitchAmount:  getEnvInt("GENERAL_GLITCH_AMOUNT", 1000),
		SpecialBrandPercent:  getEnvInt("SPECIAL_BRAND_PERCENT", 40),
		SpecialBrandAmount:   getEnvInt("SPECIAL_BRAND_AMOUNT", 500),
		PremiumBrandPercent:  getEnvInt("PREMIUM_BRAND_PERCENT", 50),
		PremiumBrandAmount:   getEnvInt("PREMIUM_BRAND_AMOUNT", 500),
		CouponMinAmount:      getEnvInt("COUPON_MIN_AMOUNT", 500),

		SpecialBrands: getEnvList("SPECIAL_BRANDS", []string{
			"nike", "jordan", "h&m", "mango man", "only",
		}),
		PremiumBrands: getEnvList("PREMIUM_BRANDS", []string{
			"adidas", "puma", "levis", "tommy hilfiger", "calvin klein",
			"lacoste", "superdry", "diesel", "armani", "u.s. polo assn",
		}),
		CouponKeywords: getEnvList("COUPON_KEYWORDS", []string{
			"coupon", "extra off", "promo code", "coupon code",
			"discount code", "flat off",
		}),

		DedupCapacity: getEnvInt("DEDUP_CAPACITY", 1000),

		OffersAPIURL:   getEnv("OFFERS_API_URL", "https://www.myntra.com/gateway/v2/product/%s/offers"),
		ProductBaseURL: getEnv("PRODUCT_BASE_URL", "https://www.myntra.com"),

		HistoryDBPath:    getEnv("HISTORY_DB_PATH", ""),
		PriceDropPercent: getEnvInt("PRICE_DROP_PERCENT", 30),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "lootalerts"),
		RedisStreamMaxLength: redisStreamMaxLength,

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),

		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		Environment: getEnv("LOOTRADAR_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.NewConfiguration("TELEGRAM_BOT_TOKEN is required", nil)
	}
	if c.TelegramChatID == 0 {
		return errors.NewConfiguration("TELEGRAM_CHAT_ID is required", nil)
	}
	if len(c.CategoryURLs) == 0 {
		return errors.NewConfiguration("at least one category URL is required", nil)
	}
	if c.ScanInterval <= 0 {
		return errors.NewConfiguration("scan interval must be positive", nil)
	}
	if c.DedupCapacity <= 0 {
		return errors.NewConfiguration("dedup capacity must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvList retrieves a comma-separated environment variable as a list
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
