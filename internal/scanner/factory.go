package scanner

import (
	"io"
	"time"

	"lootradar/config"
	"lootradar/helpers"
	"lootradar/internal/classify"
	"lootradar/internal/coupon"
	"lootradar/internal/metrics"
	"lootradar/logger"
	"lootradar/services/cache"
	"lootradar/services/history"
)

// How long a scanner stays silent after the site rate limits it
const defaultBlockTime = 5 * time.Minute

// CreateScanners creates one CategoryScanner per configured category URL
func CreateScanners(cfg *config.Config, cacheSvc cache.CacheService, hist *history.Store, m *metrics.Metrics) []Source {
	engine := &classify.Engine{
		GeneralGlitchPercent: cfg.GeneralGlitchPercent,
		GeneralGlitchAmount:  cfg.GeneralGlitchAmount,
		SpecialBrandPercent:  cfg.SpecialBrandPercent,
		SpecialBrandAmount:   cfg.SpecialBrandAmount,
		PremiumBrandPercent:  cfg.PremiumBrandPercent,
		PremiumBrandAmount:   cfg.PremiumBrandAmount,
		SpecialBrands:        cfg.SpecialBrands,
		PremiumBrands:        cfg.PremiumBrands,
		CouponKeywords:       cfg.CouponKeywords,
	}

	detector := coupon.NewDetector(cfg.OffersAPIURL, cfg.CouponMinAmount, nil)

	scanners := make([]Source, 0, len(cfg.CategoryURLs))
	for _, url := range cfg.CategoryURLs {
		label := helpers.LastSplitPart(url, "/")
		scanners = append(scanners, &CategoryScanner{
			URL:         url,
			BaseURL:     cfg.ProductBaseURL,
			CacheKey:    label + "_rate_limited",
			CacheSvc:    cacheSvc,
			BlockTime:   defaultBlockTime,
			engine:      engine,
			detector:    detector,
			hist:        hist,
			dropPercent: cfg.PriceDropPercent,
			metrics:     m,
			label:       label,
			log:         logger.ForScanner(label),
			fetch:       helpers.FetchWithRandomHeaders,
		})
	}
	return scanners
}

// NewCategoryScanner builds a single scanner with explicit collaborators.
// Tests use it to inject a fetch function and a zero-value engine setup.
func NewCategoryScanner(
	url, baseURL, label string,
	engine *classify.Engine,
	detector *coupon.Detector,
	cacheSvc cache.CacheService,
	hist *history.Store,
	dropPercent int,
	m *metrics.Metrics,
	fetch func(string) (io.Reader, error),
) *CategoryScanner {
	if fetch == nil {
		fetch = helpers.FetchWithRandomHeaders
	}
	return &CategoryScanner{
		URL:         url,
		BaseURL:     baseURL,
		CacheKey:    label + "_rate_limited",
		BlockTime:   defaultBlockTime,
		CacheSvc:    cacheSvc,
		engine:      engine,
		detector:    detector,
		hist:        hist,
		dropPercent: dropPercent,
		metrics:     m,
		label:       label,
		log:         logger.ForScanner(label),
		fetch:       fetch,
	}
}
