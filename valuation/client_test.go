package valuation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFormOptions(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/form-options" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"locations":["Colombo 2","Colombo 3"],"property_types":["Office Space"],"statuses":["Rent","Sale"]}`))
	}))
	defer ts.Close()

	opts, err := NewClient(ts.URL).FormOptions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts.Locations) != 2 || opts.Locations[0] != "Colombo 2" {
		t.Errorf("bad locations: %v", opts.Locations)
	}
	if len(opts.Statuses) != 2 {
		t.Errorf("bad statuses: %v", opts.Statuses)
	}
}

func TestMarketInsightsQueryAndDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sqft") != "0" {
			t.Errorf("sqft = %q, want literal 0", q.Get("sqft"))
		}
		if q.Get("status") != "Rent" || q.Get("location") != "Colombo 03" || q.Get("property_type") != "Office Space" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`{"status":"Rent","selected_city":"Colombo 3","locations":["Colombo 3","Nugegoda"],"median_prices":[250000,120000],"counts":[12,7]}`))
	}))
	defer ts.Close()

	got, err := NewClient(ts.URL).MarketInsights(context.Background(), MarketQuery{
		Status:       "Rent",
		Location:     "Colombo 03",
		Sqft:         "0",
		PropertyType: "Office Space",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SelectedCity != "Colombo 3" || len(got.Locations) != 2 || got.Counts[1] != 7 {
		t.Errorf("bad decode: %+v", got)
	}
}

func TestMarketInsightsRejectsMisalignedArrays(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"Rent","selected_city":"","locations":["A","B"],"median_prices":[1],"counts":[1,2]}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).MarketInsights(context.Background(), MarketQuery{Sqft: "0"})
	if err == nil {
		t.Fatal("expected error for misaligned arrays")
	}
	if IsBackendStatus(err) {
		t.Errorf("misaligned payload should not look like a status error: %v", err)
	}
}

func TestPredictBodyFieldNames(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		// The backend's request model uses exported-style field names.
		for _, k := range []string{"Sqft", "Location", "PropertyType", "Status"} {
			if _, ok := body[k]; !ok {
				t.Errorf("missing body field %q in %v", k, body)
			}
		}
		w.Write([]byte(`{"predicted_price":350000,"shap_image_base64":"aGk=","top_features":[{"feature":"Sqft","impact":120000.5},{"feature":"Location_Colombo 3","impact":-20000}],"base_value":200000,"location_known":true}`))
	}))
	defer ts.Close()

	got, err := NewClient(ts.URL).Predict(context.Background(), PredictRequest{
		Sqft: 1200, Location: "Colombo 03", PropertyType: "Office Space", Status: "Rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PredictedPrice != 350000 || !got.LocationKnown {
		t.Errorf("bad decode: %+v", got)
	}
	if len(got.TopFeatures) != 2 || got.TopFeatures[1].Impact != -20000 {
		t.Errorf("bad top features: %+v", got.TopFeatures)
	}
}

func TestNonSuccessStatusIsAPIError(t *testing.T) {
	// 400 is non-retryable, 500 is nominally retryable; both must surface as
	// a typed status error with retries disabled.
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"No trained model available for Lease"}`, status)
		}))

		_, err := NewClient(ts.URL).Predict(context.Background(), PredictRequest{Status: "Lease"})
		ts.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if !IsBackendStatus(err) {
			t.Fatalf("status %d: expected APIError, got %T: %v", status, err, err)
		}
	}
}

func TestTransportFailureIsNotStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse connections

	_, err := NewClient(ts.URL).FormOptions(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if IsBackendStatus(err) {
		t.Errorf("transport failure must not classify as backend status: %v", err)
	}
}
