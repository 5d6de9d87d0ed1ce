package validate

import (
	"math"
	"strconv"
	"strings"
)

// Square-footage bounds observed in the listing data; anything outside is
// either a typo or a unit mix-up and must not reach the model.
const (
	MinSqft = 50
	MaxSqft = 1_000_000
)

// Reasons surfaced as field-level feedback next to the square-footage input.
const (
	ReasonMissing    = "missing value"
	ReasonNotANumber = "not a number"
	ReasonTooSmall   = "below minimum plausible size"
	ReasonTooLarge   = "implausibly large"
)

// Sqft checks the raw square-footage text. It returns the parsed value and an
// empty reason when the input is acceptable, or a zero value and one of the
// Reason constants when it is not. Checks run in order: presence, numeric
// parse, lower bound, upper bound.
func Sqft(raw string) (float64, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ReasonMissing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ReasonNotANumber
	}
	if v < MinSqft {
		return 0, ReasonTooSmall
	}
	if v > MaxSqft {
		return 0, ReasonTooLarge
	}
	return v, ""
}
