package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, 60*time.Second, config.ScanInterval)
	assert.Equal(t, 30*time.Second, config.ScanJitter)
	assert.Equal(t, 80, config.GeneralGlitchPercent)
	assert.Equal(t, 1000, config.GeneralGlitchAmount)
	assert.Equal(t, 40, config.SpecialBrandPercent)
	assert.Equal(t, 500, config.SpecialBrandAmount)
	assert.Equal(t, 1000, config.DedupCapacity)
	assert.Contains(t, config.SpecialBrands, "nike")
	assert.Contains(t, config.CouponKeywords, "flat off")
	assert.Equal(t, "", config.RedisAddr)
	assert.Equal(t, ":8080", config.ListenAddr)

	// Test with environment variables
	os.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	os.Setenv("TELEGRAM_CHAT_ID", "42")
	os.Setenv("CATEGORY_URLS", "https://example.com/shoes, https://example.com/watches")
	os.Setenv("SCAN_INTERVAL_SECONDS", "90")
	os.Setenv("GENERAL_GLITCH_PERCENT", "75")
	os.Setenv("SPECIAL_BRANDS", "nike,jordan")
	os.Setenv("DEDUP_CAPACITY", "50")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")

	config = LoadConfig()
	assert.Equal(t, "123:abc", config.TelegramToken)
	assert.Equal(t, int64(42), config.TelegramChatID)
	assert.Equal(t, []string{"https://example.com/shoes", "https://example.com/watches"}, config.CategoryURLs)
	assert.Equal(t, 90*time.Second, config.ScanInterval)
	assert.Equal(t, 75, config.GeneralGlitchPercent)
	assert.Equal(t, []string{"nike", "jordan"}, config.SpecialBrands)
	assert.Equal(t, 50, config.DedupCapacity)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)

	// Clean up
	os.Unsetenv("TELEGRAM_BOT_TOKEN")
	os.Unsetenv("TELEGRAM_CHAT_ID")
	os.Unsetenv("CATEGORY_URLS")
	os.Unsetenv("SCAN_INTERVAL_SECONDS")
	os.Unsetenv("GENERAL_GLITCH_PERCENT")
	os.Unsetenv("SPECIAL_BRANDS")
	os.Unsetenv("DEDUP_CAPACITY")
	os.Unsetenv("REDIS_ADDR")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	config.TelegramToken = ""
	assert.Error(t, config.Validate())

	config.TelegramToken = "123:abc"
	config.TelegramChatID = 0
	assert.Error(t, config.Validate())

	config.TelegramChatID = 42
	config.CategoryURLs = nil
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.TelegramToken = "123:abc"
	config.TelegramChatID = 42
	assert.NoError(t, config.Validate())
}
