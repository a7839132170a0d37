package scanner

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"lootradar/internal/classify"
	"lootradar/services/cache"
	"lootradar/services/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryHTML = `<html><body><ul>
	<li class="product-base">
		<a href="/shoes/nike/air-max/12345678/buy">
			<h3 class="product-brand">Nike</h3>
			<h4 class="product-product">Air Max 270</h4>
			<span class="product-discountedPrice">Rs. 1200</span>
			<span class="product-strike">Rs. 2000</span>
		</a>
	</li>
	<li class="product-base">
		<a href="/tshirts/generic/basic/11112222/buy">
			<h3 class="product-brand">Generic Co</h3>
			<h4 class="product-product">Basic Tee</h4>
			<span class="product-discountedPrice">Rs. 100</span>
			<span class="product-strike">Rs. 120</span>
		</a>
	</li>
	<li class="product-base"><img src="/banner.jpg"/></li>
</ul></body></html>`

func testClassifyEngine() *classify.Engine {
	return &classify.Engine{
		GeneralGlitchPercent: 80,
		GeneralGlitchAmount:  1000,
		SpecialBrandPercent:  40,
		SpecialBrandAmount:   500,
		PremiumBrandPercent:  50,
		PremiumBrandAmount:   500,
		SpecialBrands:        []string{"nike", "jordan"},
		PremiumBrands:        []string{"puma"},
		CouponKeywords:       []string{"coupon", "flat off"},
	}
}

func staticFetch(html string) func(string) (io.Reader, error) {
	return func(string) (io.Reader, error) {
		return strings.NewReader(html), nil
	}
}

func TestScanPicksOutNotificationWorthyProducts(t *testing.T) {
	s := NewCategoryScanner(
		"https://www.myntra.com/casual-shoes", "https://www.myntra.com", "casual-shoes",
		testClassifyEngine(), nil, nil, nil, 0, nil,
		staticFetch(categoryHTML),
	)

	alerts, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	alert := alerts[0]
	assert.Equal(t, "Nike", alert.Brand)
	assert.Equal(t, "special_brand", alert.Tier)
	assert.Equal(t, 40, alert.DiscountPercent)
	assert.Equal(t, 800, alert.DiscountAmount)
	assert.Equal(t, "https://www.myntra.com/shoes/nike/air-max/12345678/buy", alert.Link)
	assert.Equal(t, "casual-shoes", alert.Category)
	assert.NotEmpty(t, alert.Key)
}

func TestScanCouponKeywordTile(t *testing.T) {
	html := `<html><body><ul>
		<li class="product-base">
			<div>Generic Co</div>
			<div>Leather Belt</div>
			<div>flat off with code ₹1,000 ₹999</div>
		</li>
	</ul></body></html>`

	s := NewCategoryScanner(
		"https://example.com/belts", "", "belts",
		testClassifyEngine(), nil, nil, nil, 0, nil,
		staticFetch(html),
	)

	alerts, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "coupon", alerts[0].Tier)
}

func TestScanTileCouponMarkerWins(t *testing.T) {
	// Inline coupon marker on the tile supersedes discount-based tiers
	html := `<html><body><ul>
		<li class="product-base">
			<div>Generic Co</div>
			<div>Socks</div>
			<div>₹100 ₹95</div>
			<span class="couponsList-base-discount">Extra ₹200 off</span>
		</li>
	</ul></body></html>`

	s := NewCategoryScanner(
		"https://example.com/socks", "", "socks",
		testClassifyEngine(), nil, nil, nil, 0, nil,
		staticFetch(html),
	)

	alerts, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "coupon", alerts[0].Tier)
	assert.Contains(t, alerts[0].Reason, "Extra ₹200 off")
}

func TestScanTransportError(t *testing.T) {
	s := NewCategoryScanner(
		"https://example.com/shoes", "", "shoes",
		testClassifyEngine(), nil, nil, nil, 0, nil,
		func(string) (io.Reader, error) { return nil, errors.New("connection refused") },
	)

	_, err := s.Scan()
	assert.Error(t, err)
}

func TestScanRateLimitBlock(t *testing.T) {
	cacheSvc := cache.NewMemoryService()
	calls := 0

	s := NewCategoryScanner(
		"https://example.com/shoes", "", "shoes",
		testClassifyEngine(), nil, cacheSvc, nil, 0, nil,
		func(string) (io.Reader, error) {
			calls++
			return nil, errors.New("rate limited; retry after 60")
		},
	)

	_, err := s.Scan()
	assert.Error(t, err)
	assert.Equal(t, 1, calls)

	// The block is cached; the next cycle must not hit the site
	_, err = s.Scan()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
	assert.Equal(t, 1, calls)
}

func TestScanPriceDrop(t *testing.T) {
	hist, err := history.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer hist.Close()

	// No brand match, no glitch: only the price-drop rule can fire
	html := `<html><body><ul>
		<li class="product-base">
			<a href="/bags/generic/tote/55556666/buy">
				<h3 class="product-brand">Generic Co</h3>
				<h4 class="product-product">Tote Bag</h4>
				<span class="product-discountedPrice">Rs. 600</span>
			</a>
		</li>
	</ul></body></html>`

	newScanner := func() *CategoryScanner {
		return NewCategoryScanner(
			"https://www.myntra.com/bags", "https://www.myntra.com", "bags",
			testClassifyEngine(), nil, nil, hist, 30, nil,
			staticFetch(html),
		)
	}

	// First sighting records the price and produces no alert
	alerts, err := newScanner().Scan()
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// Simulate a previous sighting at a much higher price
	require.NoError(t, hist.Record("https://www.myntra.com/bags/generic/tote/55556666/buy", 1000))

	alerts, err = newScanner().Scan()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "price_drop", alerts[0].Tier)
	assert.Contains(t, alerts[0].Reason, "40%")
}

func TestAlertMessage(t *testing.T) {
	price, list := 1200, 2000
	alert := Alert{
		Brand: "Nike", Name: "Air <Max>",
		Price: &price, ListPrice: &list,
		DiscountAmount: 800, DiscountPercent: 40,
		Tier: "special_brand", Reason: "Special brand (nike) 40% / ₹800",
		Link: "https://example.com/p/1",
	}

	msg := alert.Message()
	assert.Contains(t, msg, "<b>Loot Alert</b>")
	assert.Contains(t, msg, "<b>Nike</b>")
	assert.Contains(t, msg, "Air &lt;Max&gt;")
	assert.Contains(t, msg, "₹1200 (MRP: ₹2000)")
	assert.Contains(t, msg, "40% (₹800)")
	assert.Contains(t, msg, "https://example.com/p/1")
}

func TestAlertMessageMissingFields(t *testing.T) {
	alert := Alert{Reason: "General glitch 90% / ₹900"}
	msg := alert.Message()
	assert.Contains(t, msg, "Unknown brand")
	assert.Contains(t, msg, "Product")
	assert.Contains(t, msg, "N/A (MRP: N/A)")
}
