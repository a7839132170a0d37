package scanner

import (
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lootradar/internal/classify"
	"lootradar/internal/coupon"
	"lootradar/internal/metrics"
	"lootradar/internal/product"
	"lootradar/logger"
	"lootradar/services/cache"
	"lootradar/services/history"
)

// Selector for product tiles on a category page, with a generic fallback
// when the site markup changes.
const (
	tileSelector         = "li.product-base"
	tileFallbackSelector = "li"
)

// Source is one scannable category page
type Source interface {
	// Scan runs one pass over the category and returns the
	// notification-worthy products found.
	Scan() ([]Alert, error)

	// Label returns a short name for logging and identification
	Label() string
}

// CategoryScanner scans one category URL per cycle and runs each product
// tile through the extraction and classification pipeline.
type CategoryScanner struct {
	URL       string
	BaseURL   string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration

	engine      *classify.Engine
	detector    *coupon.Detector
	hist        *history.Store
	dropPercent int
	metrics     *metrics.Metrics

	label string
	log   *logger.Logger

	// fetch is replaceable in tests
	fetch func(url string) (io.Reader, error)
}

// Scan fetches the category page and processes its product tiles. A
// failure on one tile never aborts the rest; only transport-level
// failures surface as an error.
func (c *CategoryScanner) Scan() ([]Alert, error) {
	body, err := c.fetchWithBlock()
	if err != nil {
		c.metrics.IncError("transport")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		c.metrics.IncError("parse")
		return nil, fmt.Errorf("failed to parse category page: %w", err)
	}

	tiles := doc.Find(tileSelector)
	if tiles.Length() == 0 {
		tiles = doc.Find(tileFallbackSelector)
	}

	var alerts []Alert
	tiles.Each(func(_ int, s *goquery.Selection) {
		if alert := c.processTile(s); alert != nil {
			alerts = append(alerts, *alert)
		}
	})

	c.metrics.IncItems(tiles.Length())
	return alerts, nil
}

// Label returns the scanner's short name
func (c *CategoryScanner) Label() string {
	return c.label
}

// fetchWithBlock fetches the category URL unless a rate-limit block is
// active, and sets one when the site rate limits us.
func (c *CategoryScanner) fetchWithBlock() (io.Reader, error) {
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, fmt.Errorf("%s: blocked for %d more seconds after rate limiting", c.CacheKey, int(c.BlockTime/time.Second))
		}
	}

	body, err := c.fetch(c.URL)
	if err != nil {
		if c.CacheSvc != nil && c.CacheKey != "" && isRateLimited(err) {
			c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", int(c.BlockTime/time.Second))), c.BlockTime)
		}
		return nil, err
	}
	return body, nil
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return len(msg) >= 12 && msg[:12] == "rate limited"
}

// processTile runs one product tile through the pipeline. Returns nil
// when the tile is noise or not notification-worthy.
func (c *CategoryScanner) processTile(s *goquery.Selection) *Alert {
	rec, trace := product.Extract(s, c.BaseURL)
	if !rec.Usable() {
		return nil
	}
	if rec.Link == "" {
		rec.Link = c.URL
	}

	disc := product.ComputeDiscount(rec.Price, rec.ListPrice)

	signal := c.couponSignal(s, rec)

	res := c.engine.Classify(rec, disc, signal)

	tier := res.Tier.String()
	reason := res.Reason
	notify := res.Notify

	// Price-drop detection runs outside the tiered rules
	if dropReason, dropped := c.checkPriceDrop(rec); dropped && !notify {
		tier = "price_drop"
		reason = dropReason
		notify = true
	}

	if !notify {
		return nil
	}

	c.log.Debug().
		Str("brand", rec.Brand).
		Str("name", rec.Name).
		Str("tier", tier).
		Interface("trace", trace).
		Msg("notification-worthy product")

	return &Alert{
		Category:        c.label,
		Brand:           rec.Brand,
		Name:            rec.Name,
		Price:           rec.Price,
		ListPrice:       rec.ListPrice,
		DiscountAmount:  disc.Amount,
		DiscountPercent: disc.Percent,
		Tier:            tier,
		Reason:          reason,
		Link:            rec.Link,
		Key:             rec.DedupKey(),
	}
}

// couponSignal combines the tile-level coupon marker with the detector's
// API and detail-page probes. The detector only runs for product links,
// not for tiles falling back to the category URL.
func (c *CategoryScanner) couponSignal(s *goquery.Selection, rec product.Record) classify.CouponSignal {
	if found, text := coupon.FromTile(s); found {
		return classify.CouponSignal{Found: true, Description: text}
	}
	if c.detector != nil && rec.Link != c.URL {
		if found, desc := c.detector.Detect(rec.Link); found {
			return classify.CouponSignal{Found: true, Description: desc}
		}
	}
	return classify.CouponSignal{}
}

// checkPriceDrop compares the record against the persisted last price
// and records the new observation. Storage failures degrade to "no drop".
func (c *CategoryScanner) checkPriceDrop(rec product.Record) (string, bool) {
	if c.hist == nil || c.dropPercent <= 0 || rec.Price == nil || rec.Link == "" || rec.Link == c.URL {
		return "", false
	}

	last, found, err := c.hist.LastPrice(rec.Link)
	if err != nil {
		c.log.Warn().Err(err).Str("link", rec.Link).Msg("price history lookup failed")
		return "", false
	}

	if err := c.hist.Record(rec.Link, *rec.Price); err != nil {
		c.log.Warn().Err(err).Str("link", rec.Link).Msg("price history update failed")
	}

	if !found || last <= 0 {
		return "", false
	}

	dropped := last - *rec.Price
	if dropped <= 0 {
		return "", false
	}
	percent := dropped * 100 / last
	if percent < c.dropPercent {
		return "", false
	}

	return fmt.Sprintf("Price drop %d%% (from ₹%d to ₹%d)", percent, last, *rec.Price), true
}
