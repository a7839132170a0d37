package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"₹1,999", 1999, true},
		{"Rs. 499", 499, true},
		{"Rs 499", 499, true},
		{"INR 2,999", 2999, true},
		{"₹ 12,34,567", 1234567, true},
		{"1999", 1999, true},
		{"₹0", 0, true},
		{"", 0, false},
		{"₹", 0, false},
		{"N/A", 0, false},
		{"₹abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseAmount(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}

func TestFindAmounts(t *testing.T) {
	// MRP rendered before the discounted price
	amounts := FindAmounts("Nike Air Max Rs. 2,999 ₹1,200 (60% OFF)")
	assert.Equal(t, []int{2999, 1200}, amounts)

	amounts = FindAmounts("only one price ₹499 here")
	assert.Equal(t, []int{499}, amounts)

	assert.Nil(t, FindAmounts("no prices at all"))

	// Words merely ending in "rs" must not yield phantom amounts
	assert.Nil(t, FindAmounts("4 colors 500"))
	assert.Nil(t, FindAmounts("sneakers 2999 in stock"))
	amounts = FindAmounts("4 colors Rs. 500")
	assert.Equal(t, []int{500}, amounts)
}

func TestComputeDiscount(t *testing.T) {
	price := func(v int) *int { return &v }

	tests := []struct {
		name        string
		price       *int
		listPrice   *int
		wantAmount  int
		wantPercent int
	}{
		{"regular discount", price(1200), price(2000), 800, 40},
		{"rounds half up", price(875), price(1000), 125, 13},
		{"tiny discount", price(999), price(1000), 1, 0},
		{"one sixth off", price(100), price(120), 20, 17},
		{"no discount", price(2000), price(2000), 0, 0},
		{"price above list", price(2500), price(2000), 0, 0},
		{"missing price", nil, price(2000), 0, 0},
		{"missing list price", price(1200), nil, 0, 0},
		{"both missing", nil, nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDiscount(tt.price, tt.listPrice)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Equal(t, tt.wantPercent, got.Percent)

			// Idempotent under repeated computation
			assert.Equal(t, got, ComputeDiscount(tt.price, tt.listPrice))
		})
	}
}

func TestDedupKey(t *testing.T) {
	p1, l1 := 1200, 2000
	a := Record{Brand: "Nike", Name: "Air Max", Price: &p1, ListPrice: &l1}

	p2, l2 := 1200, 2000
	b := Record{Brand: "nike", Name: "Air Max", Price: &p2, ListPrice: &l2}

	// Same listing seen across cycles must fingerprint identically
	assert.Equal(t, a.DedupKey(), b.DedupKey())

	p3 := 1100
	c := Record{Brand: "Nike", Name: "Air Max", Price: &p3, ListPrice: &l1}
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())

	d := Record{Brand: "Nike", Name: "Air Max", ListPrice: &l1}
	assert.NotEqual(t, a.DedupKey(), d.DedupKey())
}
