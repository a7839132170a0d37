package product

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Class markers for structured extraction from a product tile.
const (
	brandSelector     = ".product-brand"
	nameSelector      = ".product-product"
	priceSelector     = ".product-discountedPrice"
	listPriceSelector = ".product-strike"
)

// Trace records which strategy produced each extracted field, keyed by
// field name. Fields that stayed empty have no entry. It exists so the
// fallback order is observable in tests instead of implicit code order.
type Trace map[string]string

// textStrategy extracts a string field from a tile. Strategies for one
// field are tried in order; the first non-empty result wins.
type textStrategy struct {
	name    string
	extract func(s *goquery.Selection, lines []string) string
}

// priceStrategy extracts an optional amount from a tile.
type priceStrategy struct {
	name    string
	extract func(s *goquery.Selection, rawText string) *int
}

var brandStrategies = []textStrategy{
	{"class-marker", func(s *goquery.Selection, _ []string) string {
		return strings.TrimSpace(s.Find(brandSelector).First().Text())
	}},
	{"line-split", func(_ *goquery.Selection, lines []string) string {
		if len(lines) > 0 {
			return lines[0]
		}
		return ""
	}},
}

var nameStrategies = []textStrategy{
	{"class-marker", func(s *goquery.Selection, _ []string) string {
		return strings.TrimSpace(s.Find(nameSelector).First().Text())
	}},
	{"line-split", func(_ *goquery.Selection, lines []string) string {
		if len(lines) > 1 {
			return lines[1]
		}
		return ""
	}},
}

var priceStrategies = []priceStrategy{
	{"class-marker", func(s *goquery.Selection, _ string) *int {
		return parseSelection(s, priceSelector)
	}},
	{"text-scan", func(_ *goquery.Selection, rawText string) *int {
		// With a single currency token it is the selling price; with
		// several, the MRP is rendered first and the discounted price last.
		amounts := FindAmounts(rawText)
		if len(amounts) == 0 {
			return nil
		}
		v := amounts[len(amounts)-1]
		return &v
	}},
}

var listPriceStrategies = []priceStrategy{
	{"class-marker", func(s *goquery.Selection, _ string) *int {
		return parseSelection(s, listPriceSelector)
	}},
	{"text-scan", func(_ *goquery.Selection, rawText string) *int {
		amounts := FindAmounts(rawText)
		if len(amounts) < 2 {
			return nil
		}
		v := amounts[0]
		return &v
	}},
}

// Extract builds a best-effort Record from one product tile. Every field
// is extracted independently; a failure on one never blocks the others,
// and extraction itself never fails. Relative links are resolved against
// baseURL.
func Extract(s *goquery.Selection, baseURL string) (Record, Trace) {
	lines := visibleLines(s)
	rec := Record{RawText: strings.Join(lines, "\n")}
	trace := Trace{}

	for _, st := range brandStrategies {
		if v := st.extract(s, lines); v != "" {
			rec.Brand, trace["brand"] = v, st.name
			break
		}
	}
	for _, st := range nameStrategies {
		if v := st.extract(s, lines); v != "" && v != rec.Brand {
			rec.Name, trace["name"] = v, st.name
			break
		}
	}
	for _, st := range priceStrategies {
		if v := st.extract(s, rec.RawText); v != nil {
			rec.Price, trace["price"] = v, st.name
			break
		}
	}
	for _, st := range listPriceStrategies {
		if v := st.extract(s, rec.RawText); v != nil {
			rec.ListPrice, trace["listPrice"] = v, st.name
			break
		}
	}

	rec.Link = extractLink(s, baseURL)
	if rec.Link != "" {
		trace["link"] = "anchor"
	}

	return rec, trace
}

// parseSelection parses the text of the first match of selector as a
// currency amount, or nil when absent or unparseable.
func parseSelection(s *goquery.Selection, selector string) *int {
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	n, ok := ParseAmount(sel.Text())
	if !ok {
		return nil
	}
	return &n
}

// visibleLines collects the trimmed text of leaf elements in document
// order, approximating the line boundaries a browser would render.
func visibleLines(s *goquery.Selection) []string {
	var lines []string
	s.Find("*").Each(func(_ int, el *goquery.Selection) {
		if el.Children().Length() > 0 {
			return
		}
		if t := strings.TrimSpace(el.Text()); t != "" {
			lines = append(lines, t)
		}
	})
	if len(lines) == 0 {
		if t := strings.TrimSpace(s.Text()); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

// extractLink returns the tile's first anchor href, resolved against
// baseURL when relative.
func extractLink(s *goquery.Selection, baseURL string) string {
	href, exists := s.Find("a[href]").First().Attr("href")
	if !exists {
		return ""
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(baseURL, "/") + href
	}
	if !strings.HasPrefix(href, "http") && baseURL != "" {
		return strings.TrimSuffix(baseURL, "/") + "/" + href
	}
	return href
}
