package scanner

import (
	"fmt"
	"html"
	"strings"
)

// Alert is one notification-worthy product, ready for delivery and for
// the event stream.
type Alert struct {
	Category        string `json:"category"`
	Brand           string `json:"brand,omitempty"`
	Name            string `json:"name,omitempty"`
	Price           *int   `json:"price,omitempty"`
	ListPrice       *int   `json:"list_price,omitempty"`
	DiscountAmount  int    `json:"discount_amount"`
	DiscountPercent int    `json:"discount_percent"`
	Tier            string `json:"tier"`
	Reason          string `json:"reason"`
	Link            string `json:"link"`

	// Key is the dedup fingerprint, excluded from the payload
	Key string `json:"-"`
}

// Message renders the alert as a Telegram HTML message
func (a Alert) Message() string {
	title := a.Brand
	if title == "" {
		title = "Unknown brand"
	}
	name := a.Name
	if name == "" {
		name = "Product"
	}

	var b strings.Builder
	b.WriteString("🧨 <b>Loot Alert</b>\n")
	fmt.Fprintf(&b, "🧾 <b>%s</b> — %s\n", html.EscapeString(title), html.EscapeString(name))
	fmt.Fprintf(&b, "💸 Price: %s (MRP: %s)\n", formatPrice(a.Price), formatPrice(a.ListPrice))
	fmt.Fprintf(&b, "📉 Discount: %d%% (₹%d)\n", a.DiscountPercent, a.DiscountAmount)
	fmt.Fprintf(&b, "🔎 Reason: %s", html.EscapeString(a.Reason))
	if a.Link != "" {
		fmt.Fprintf(&b, "\n🔗 %s", a.Link)
	}
	return b.String()
}

func formatPrice(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("₹%d", *v)
}
