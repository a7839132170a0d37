package coupon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"lootradar/helpers"
	"lootradar/internal/product"
	"lootradar/logger"

	"github.com/PuerkitoBio/goquery"
)

// Tile-level coupon markers on category pages.
const tileCouponSelector = ".couponsList-base-discount, .couponsList-base-offer"

var (
	productIDRe   = regexp.MustCompile(`/(\d+)/buy`)
	trailingIDRe  = regexp.MustCompile(`/(\d{6,})(?:[/?#]|$)`)
	couponLabelRe = regexp.MustCompile(`(?i)\bextra\b|\bcoupon\b`)
)

// Detector probes a product's offers API and detail markup for
// high-value coupons. Both probes are best-effort: any network or parse
// failure degrades to "no coupon found" and never aborts the enclosing
// product's classification.
type Detector struct {
	client *http.Client
	// offersURL is a printf template; %s is the numeric product id
	offersURL string
	minAmount int
	log       *logger.Logger
}

// NewDetector creates a detector. A nil client gets a default with a
// bounded timeout.
func NewDetector(offersURL string, minAmount int, client *http.Client) *Detector {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Detector{
		client:    client,
		offersURL: offersURL,
		minAmount: minAmount,
		log:       logger.ForComponent("coupon"),
	}
}

// offersPayload mirrors the structured offer list of the offers API
type offersPayload struct {
	Offers []struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		Value       int    `json:"value"`
	} `json:"offers"`
}

// Detect looks for a qualifying coupon for the product behind link.
// The offers API is tried first, then the detail markup; either hit is
// sufficient. Returns (false, "") when neither path finds one.
func (d *Detector) Detect(link string) (bool, string) {
	if link == "" {
		return false, ""
	}

	if found, desc := d.checkOffersAPI(link); found {
		return true, desc
	}
	return d.checkDetailPage(link)
}

// checkOffersAPI queries the offers endpoint keyed by the numeric
// product id extracted from the link.
func (d *Detector) checkOffersAPI(link string) (bool, string) {
	if d.offersURL == "" {
		return false, ""
	}

	id, err := ProductID(link)
	if err != nil {
		return false, ""
	}

	body, err := d.get(fmt.Sprintf(d.offersURL, id))
	if err != nil {
		d.log.Debug().Err(err).Str("link", link).Msg("offers API probe failed")
		return false, ""
	}

	var payload offersPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		d.log.Debug().Err(err).Str("link", link).Msg("offers API payload unparseable")
		return false, ""
	}

	for _, offer := range payload.Offers {
		if offer.Value >= d.minAmount {
			desc := offer.Description
			if desc == "" {
				desc = fmt.Sprintf("%s worth ₹%d", offer.Type, offer.Value)
			}
			return true, desc
		}
	}
	return false, ""
}

// checkDetailPage fetches the product page and scans coupon-labeled
// regions and embedded structured-data blocks for a qualifying amount.
func (d *Detector) checkDetailPage(link string) (bool, string) {
	body, err := d.get(link)
	if err != nil {
		d.log.Debug().Err(err).Str("link", link).Msg("detail page probe failed")
		return false, ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return false, ""
	}

	found := false
	desc := ""

	// Coupon regions by class marker or label text
	doc.Find(tileCouponSelector + ", span, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() > 0 {
			return true
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		if !s.Is(tileCouponSelector) && !couponLabelRe.MatchString(text) {
			return true
		}
		for _, amount := range product.FindAmounts(text) {
			if amount >= d.minAmount {
				found, desc = true, text
				return false
			}
		}
		return true
	})
	if found {
		return true, desc
	}

	// Embedded structured-data blocks mentioning a coupon
	doc.Find(`script[type="application/ld+json"], script[type="application/json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(strings.ToLower(text), "coupon") {
			return true
		}
		for _, amount := range product.FindAmounts(text) {
			if amount >= d.minAmount {
				found = true
				desc = fmt.Sprintf("Coupon worth ₹%d in product data", amount)
				return false
			}
		}
		return true
	})

	return found, desc
}

func (d *Detector) get(url string) ([]byte, error) {
	return helpers.FetchSimplyWith(d.client, url)
}

// ProductID extracts the numeric product identifier from a canonical
// product link.
func ProductID(link string) (string, error) {
	if m := productIDRe.FindStringSubmatch(link); m != nil {
		return m[1], nil
	}
	if m := trailingIDRe.FindStringSubmatch(link); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("no product id in link %q", link)
}

// FromTile scans one category-page tile for an inline coupon marker and
// returns its text when present. Tile markers carry no amount, so no
// threshold applies here.
func FromTile(s *goquery.Selection) (bool, string) {
	sel := s.Find(tileCouponSelector).First()
	if sel.Length() > 0 {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return true, text
		}
	}

	found := false
	text := ""
	s.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		t := strings.TrimSpace(span.Text())
		if t != "" && couponLabelRe.MatchString(t) {
			found, text = true, t
			return false
		}
		return true
	})
	return found, text
}
