package display

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Derived display strings are computed on read and never stored.

var printer = message.NewPrinter(language.English)

// Currency formats a price as Sri Lankan rupees with digit grouping and no
// decimal places, e.g. 350000 -> "LKR 350,000".
func Currency(v float64) string {
	return printer.Sprintf("LKR %d", int64(math.Round(v)))
}

// Model feature columns carry the one-hot category prefix, e.g.
// "Location_Colombo 3" or "Property Type_Office Space".
var featurePrefixes = []string{"Location_", "Property Type_", "Status_"}

// FeatureLabel strips the category-prefix token from a model feature name,
// leaving the value a user actually selected.
func FeatureLabel(feature string) string {
	for _, p := range featurePrefixes {
		if strings.HasPrefix(feature, p) {
			return strings.TrimPrefix(feature, p)
		}
	}
	return feature
}
