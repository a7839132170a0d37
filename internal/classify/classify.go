package classify

import (
	"fmt"
	"strings"

	"lootradar/internal/product"
)

// Tier is one rule-priority level in the classification policy. Higher
// values take precedence; exactly one tier decides each product.
type Tier int

const (
	// TierNone means no rule matched; no notification.
	TierNone Tier = iota
	// TierPremiumBrand matches the larger curated brand list with the
	// lowest thresholds.
	TierPremiumBrand
	// TierSpecialBrand matches the short list of marquee brands.
	TierSpecialBrand
	// TierGeneralGlitch is an unusually large discount regardless of brand.
	TierGeneralGlitch
	// TierCoupon means a high-value coupon or coupon keyword was found.
	// Supersedes every discount-based tier regardless of discount size.
	TierCoupon
)

// String returns the tier name used in alert payloads and metrics labels
func (t Tier) String() string {
	switch t {
	case TierCoupon:
		return "coupon"
	case TierGeneralGlitch:
		return "general_glitch"
	case TierSpecialBrand:
		return "special_brand"
	case TierPremiumBrand:
		return "premium_brand"
	default:
		return "none"
	}
}

// CouponSignal carries the result of the coupon detector into classification
type CouponSignal struct {
	Found       bool
	Description string
}

// Result is the outcome of classifying one product
type Result struct {
	Tier   Tier
	Reason string
	Notify bool
}

// Engine applies the tiered rule set. All thresholds and lists come from
// configuration; a zero threshold disables that check and the zero-value
// engine matches nothing.
type Engine struct {
	GeneralGlitchPercent int
	GeneralGlitchAmount  int
	SpecialBrandPercent  int
	SpecialBrandAmount   int
	PremiumBrandPercent  int
	PremiumBrandAmount   int

	SpecialBrands  []string
	PremiumBrands  []string
	CouponKeywords []string
}

// Classify returns the single highest-priority applicable tier. The
// priority order (coupon > general glitch > special brand > premium
// brand) is a preserved contract: several tiers can be simultaneously
// true and the first match wins.
func (e *Engine) Classify(rec product.Record, disc product.DiscountInfo, coupon CouponSignal) Result {
	identity := rec.Identity()

	if coupon.Found {
		return Result{
			Tier:   TierCoupon,
			Reason: "Coupon detected: " + coupon.Description,
			Notify: true,
		}
	}

	if kw := matchAny(identity, e.CouponKeywords); kw != "" {
		return Result{
			Tier:   TierCoupon,
			Reason: fmt.Sprintf("Coupon keyword %q found in text", kw),
			Notify: true,
		}
	}

	if exceeds(disc, e.GeneralGlitchPercent, e.GeneralGlitchAmount) {
		return Result{
			Tier:   TierGeneralGlitch,
			Reason: fmt.Sprintf("General glitch %d%% / ₹%d", disc.Percent, disc.Amount),
			Notify: true,
		}
	}

	if brand := matchAny(identity, e.SpecialBrands); brand != "" {
		if exceeds(disc, e.SpecialBrandPercent, e.SpecialBrandAmount) {
			return Result{
				Tier:   TierSpecialBrand,
				Reason: fmt.Sprintf("Special brand (%s) %d%% / ₹%d", brand, disc.Percent, disc.Amount),
				Notify: true,
			}
		}
	}

	if brand := matchAny(identity, e.PremiumBrands); brand != "" {
		if exceeds(disc, e.PremiumBrandPercent, e.PremiumBrandAmount) {
			return Result{
				Tier:   TierPremiumBrand,
				Reason: fmt.Sprintf("Premium brand (%s) %d%% / ₹%d", brand, disc.Percent, disc.Amount),
				Notify: true,
			}
		}
	}

	return Result{Tier: TierNone}
}

// exceeds checks a discount against a tier's thresholds. A zero threshold
// is disabled, not "match everything".
func exceeds(disc product.DiscountInfo, percent, amount int) bool {
	if percent > 0 && disc.Percent >= percent {
		return true
	}
	if amount > 0 && disc.Amount >= amount {
		return true
	}
	return false
}

// matchAny returns the first needle contained in haystack, or "".
// Matching is deliberately permissive substring containment; a product
// description mentioning a competitor brand is a known false positive.
func matchAny(haystack string, needles []string) string {
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(n)) {
			return n
		}
	}
	return ""
}
