package product

import (
	"fmt"
	"math"
	"strings"
)

// Record represents one product extracted from a category page tile.
// Price fields are pointers because zero is a valid price; a nil pointer
// means the field could not be extracted.
type Record struct {
	Brand     string `json:"brand,omitempty"`
	Name      string `json:"name,omitempty"`
	Price     *int   `json:"price,omitempty"`
	ListPrice *int   `json:"list_price,omitempty"`
	RawText   string `json:"-"`
	Link      string `json:"link"`
}

// Usable reports whether the record carries enough signal to classify.
// Tiles with no brand, no name and no price are ad banners or spacers.
func (r Record) Usable() bool {
	return r.Brand != "" || r.Name != "" || r.Price != nil
}

// Identity returns the lowercased concatenation of brand, name and raw
// text, the haystack used for brand and keyword matching.
func (r Record) Identity() string {
	return strings.ToLower(r.Brand + " " + r.Name + " " + r.RawText)
}

// DedupKey returns a deterministic fingerprint for repeat-sighting
// suppression. Two sightings of the same listing with the same prices
// yield the same key across scan cycles.
func (r Record) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		strings.ToLower(strings.TrimSpace(r.Brand)),
		strings.ToLower(strings.TrimSpace(r.Name)),
		formatOptional(r.Price),
		formatOptional(r.ListPrice),
	)
}

func formatOptional(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

// DiscountInfo holds the derived discount for a record
type DiscountInfo struct {
	Amount  int `json:"amount"`
	Percent int `json:"percent"`
}

// ComputeDiscount derives the discount from price and list price. If
// either is missing, or the list price does not exceed the price, both
// fields are zero; a negative discount is never reported. The percentage
// is rounded half-up to match common display conventions.
func ComputeDiscount(price, listPrice *int) DiscountInfo {
	if price == nil || listPrice == nil {
		return DiscountInfo{}
	}
	if *listPrice <= *price {
		return DiscountInfo{}
	}
	amount := *listPrice - *price
	percent := int(math.Round(float64(amount) / float64(*listPrice) * 100))
	return DiscountInfo{Amount: amount, Percent: percent}
}
