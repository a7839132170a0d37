package product

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// currencyTokenRe matches currency-prefixed numeric tokens such as
	// "₹1,999", "Rs. 499" or "INR 2999" anywhere in visible text.
	// The word boundary keeps words merely ending in "rs" from
	// producing phantom amounts ("4 colors 500").
	currencyTokenRe = regexp.MustCompile(`(?i)(?:₹|\bRs\.?|\bINR)\s*([0-9][0-9,]*)`)

	// currencyPrefixRe strips a leading currency marker from a lone price string.
	currencyPrefixRe = regexp.MustCompile(`(?i)^\s*(?:₹|Rs\.?|INR)\s*`)
)

// ParseAmount parses a currency string into an integer amount in rupees.
// Currency prefixes and thousands separators are stripped. The boolean is
// false when the string does not contain a clean numeric amount; callers
// must treat that as "field absent", never as zero.
func ParseAmount(s string) (int, bool) {
	s = currencyPrefixRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FindAmounts scans text for all currency-prefixed numeric tokens and
// returns their values in order of appearance. Tokens that fail to parse
// are skipped.
func FindAmounts(text string) []int {
	matches := currencyTokenRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	amounts := make([]int, 0, len(matches))
	for _, m := range matches {
		if n, ok := ParseAmount(m[1]); ok {
			amounts = append(amounts, n)
		}
	}
	return amounts
}
