package options

import "regexp"

// Catalog is the set of valid selectable values for the three categorical
// fields. It is loaded once per session and immutable afterwards.
type Catalog struct {
	Locations     []string `json:"locations"`
	PropertyTypes []string `json:"property_types"`
	Statuses      []string `json:"statuses"`
}

// Complete reports whether every list has at least one entry. A catalog that
// fails this is unusable and must be replaced by the fallback.
func (c Catalog) Complete() bool {
	return len(c.Locations) > 0 && len(c.PropertyTypes) > 0 && len(c.Statuses) > 0
}

// Default-selection patterns: pick the entry a first-time user most likely
// wants, falling back to the first list entry when nothing matches.
var (
	reCityCenter = regexp.MustCompile(`(?i)colombo`)
	reOffice     = regexp.MustCompile(`(?i)office`)
	reRent       = regexp.MustCompile(`(?i)rent`)
)

// Defaults returns the default selection for each categorical field.
func (c Catalog) Defaults() (location, propertyType, status string) {
	location = firstMatch(c.Locations, reCityCenter)
	propertyType = firstMatch(c.PropertyTypes, reOffice)
	status = firstMatch(c.Statuses, reRent)
	return
}

func firstMatch(list []string, re *regexp.Regexp) string {
	for _, v := range list {
		if re.MatchString(v) {
			return v
		}
	}
	if len(list) > 0 {
		return list[0]
	}
	return ""
}

// Fallback returns the built-in catalog used when the backend cannot serve
// /form-options. The values mirror the categories the models are trained on,
// so a prediction submitted from the fallback is still answerable.
func Fallback() Catalog {
	return Catalog{
		Locations: []string{
			"Colombo 1", "Colombo 2", "Colombo 3", "Colombo 4", "Colombo 5",
			"Colombo 7", "Colombo 8", "Colombo 10", "Dehiwala", "Mount Lavinia",
			"Nugegoda", "Rajagiriya", "Battaramulla", "Kotte", "Maharagama",
			"Kandy", "Galle", "Negombo",
		},
		PropertyTypes: []string{
			"Office Space", "Shop", "Warehouse", "Building", "Commercial Property",
		},
		Statuses: []string{"Rent", "Sale"},
	}
}
