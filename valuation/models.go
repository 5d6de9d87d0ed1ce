package valuation

// FormOptions is the selectable-value catalog served by the model backend.
// The lists are derived from the columns the model was trained on, so they
// are authoritative for what the backend can actually price.
type FormOptions struct {
	Locations     []string `json:"locations"`
	PropertyTypes []string `json:"property_types"`
	Statuses      []string `json:"statuses"`
}

// MarketQuery carries the current input snapshot for a market-insights fetch.
// Sqft is raw text; the backend parses it and callers pass "0" when the field
// is empty.
type MarketQuery struct {
	Status       string
	Location     string
	Sqft         string
	PropertyType string
}

// MarketInsights aggregates median prices and listing counts per city for the
// queried filter context. The three slices are parallel; the client rejects
// payloads where they disagree in length.
type MarketInsights struct {
	Status       string    `json:"status"`
	SelectedCity string    `json:"selected_city"`
	Locations    []string  `json:"locations"`
	MedianPrices []float64 `json:"median_prices"`
	Counts       []int     `json:"counts"`
}

// Empty reports whether the backend found no matching listings at all.
// This is a legitimate "no data" outcome, distinct from a request failure.
func (m *MarketInsights) Empty() bool {
	return m == nil || len(m.Locations) == 0
}

type PredictRequest struct {
	Sqft         float64 `json:"Sqft"`
	Location     string  `json:"Location"`
	PropertyType string  `json:"PropertyType"`
	Status       string  `json:"Status"`
}

type FeatureImpact struct {
	Feature string  `json:"feature"`
	Impact  float64 `json:"impact"`
}

// Prediction is the full model output for one submission. ExplanationImage is
// a base64 PNG of the waterfall explanation plot; it can fail to render
// downstream without invalidating the numeric fields.
type Prediction struct {
	PredictedPrice   float64         `json:"predicted_price"`
	ExplanationImage string          `json:"shap_image_base64"`
	TopFeatures      []FeatureImpact `json:"top_features"`
	BaseValue        float64         `json:"base_value"`
	LocationKnown    bool            `json:"location_known"`
}
