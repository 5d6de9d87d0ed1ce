package session

import (
	"github.com/prathibha999-pd/realvalueAI/internal/cityname"
	"github.com/prathibha999-pd/realvalueAI/internal/display"
	"github.com/prathibha999-pd/realvalueAI/internal/options"
)

// View is the reconciled state of one session, shaped for rendering. Derived
// strings (formatted prices, feature labels) are computed here on every read
// and never stored on the session.
type View struct {
	SessionID       string          `json:"session_id"`
	OptionsLoading  bool            `json:"options_loading"`
	Catalog         options.Catalog `json:"catalog"`
	CatalogFallback bool            `json:"catalog_fallback"`
	Input           FormInput       `json:"input"`
	SqftError       string          `json:"sqft_error,omitempty"`
	Market          MarketView      `json:"market"`
	Prediction      PredictionView  `json:"prediction"`
}

type MarketView struct {
	State   MarketState `json:"state"`
	Message string      `json:"message,omitempty"`
	Status  string      `json:"status,omitempty"`
	City    string      `json:"selected_city,omitempty"`
	Rows    []MarketRow `json:"rows,omitempty"`
}

type MarketRow struct {
	Location        string  `json:"location"`
	MedianPrice     float64 `json:"median_price"`
	FormattedMedian string  `json:"formatted_median"`
	Count           int     `json:"count"`
	Selected        bool    `json:"selected"`
}

type PredictionView struct {
	Loading           bool        `json:"loading"`
	Error             string      `json:"error,omitempty"`
	ImageRenderFailed bool        `json:"image_render_failed"`
	Result            *Prediction `json:"result,omitempty"`
}

type Prediction struct {
	PredictedPrice   float64       `json:"predicted_price"`
	FormattedPrice   string        `json:"formatted_price"`
	BaseValue        float64       `json:"base_value"`
	FormattedBase    string        `json:"formatted_base"`
	ExplanationImage string        `json:"explanation_image"`
	LocationKnown    bool          `json:"location_known"`
	TopFeatures      []FeatureCard `json:"top_features"`
}

type FeatureCard struct {
	Feature  string  `json:"feature"`
	Label    string  `json:"label"`
	Impact   float64 `json:"impact"`
	Positive bool    `json:"positive"`
}

// buildView runs on the loop goroutine. The snapshot and prediction values it
// reads are replaced wholesale and never mutated in place, so sharing their
// slices with an encoder running after the reply is safe.
func (s *Session) buildView() View {
	v := View{
		SessionID:       s.ID,
		OptionsLoading:  s.optionsLoading,
		Catalog:         s.catalog,
		CatalogFallback: s.catalogFallback,
		Input:           s.input,
		SqftError:       s.sqftError,
		Market: MarketView{
			State:   s.marketState,
			Message: s.marketError,
		},
		Prediction: PredictionView{
			Loading:           s.predictLoading,
			Error:             s.predictionError,
			ImageRenderFailed: s.imageRenderFailed,
		},
	}

	if s.market != nil {
		v.Market.Status = s.market.Status
		v.Market.City = s.market.SelectedCity
		rows := make([]MarketRow, len(s.market.Locations))
		for i, loc := range s.market.Locations {
			rows[i] = MarketRow{
				Location:        loc,
				MedianPrice:     s.market.MedianPrices[i],
				FormattedMedian: display.Currency(s.market.MedianPrices[i]),
				Count:           s.market.Counts[i],
				Selected:        s.market.SelectedCity != "" && cityname.Same(s.market.SelectedCity, loc),
			}
		}
		v.Market.Rows = rows
	}

	if s.prediction != nil {
		p := &Prediction{
			PredictedPrice:   s.prediction.PredictedPrice,
			FormattedPrice:   display.Currency(s.prediction.PredictedPrice),
			BaseValue:        s.prediction.BaseValue,
			FormattedBase:    display.Currency(s.prediction.BaseValue),
			ExplanationImage: s.prediction.ExplanationImage,
			LocationKnown:    s.prediction.LocationKnown,
		}
		for _, f := range s.prediction.TopFeatures {
			p.TopFeatures = append(p.TopFeatures, FeatureCard{
				Feature:  f.Feature,
				Label:    display.FeatureLabel(f.Feature),
				Impact:   f.Impact,
				Positive: f.Impact >= 0,
			})
		}
		v.Prediction.Result = p
	}

	return v
}
