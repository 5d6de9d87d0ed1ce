package marketcache

import (
	"testing"

	"github.com/prathibha999-pd/realvalueAI/valuation"
)

func TestKeyCanonicalizes(t *testing.T) {
	a := Key(valuation.MarketQuery{Status: "Rent", Location: " Colombo 03", Sqft: "1200", PropertyType: "Office Space"})
	b := Key(valuation.MarketQuery{Status: "rent", Location: "colombo 03 ", Sqft: "1200", PropertyType: "office space"})
	if a != b {
		t.Errorf("case/whitespace variants should share a key: %q vs %q", a, b)
	}
	if a == Key(valuation.MarketQuery{Status: "Sale", Location: "Colombo 03", Sqft: "1200", PropertyType: "Office Space"}) {
		t.Error("distinct status must produce a distinct key")
	}
}
