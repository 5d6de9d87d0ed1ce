package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prathibha999-pd/realvalueAI/internal/session"
	"github.com/prathibha999-pd/realvalueAI/valuation"
)

type stateEnvelope struct {
	Ok        bool         `json:"ok"`
	SessionID string       `json:"session_id"`
	State     session.View `json:"state"`
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/form-options", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"locations":["Colombo 3","Colombo 7"],"property_types":["Office Space","Shop"],"statuses":["Rent","Sale"]}`))
	})
	mux.HandleFunc("/market-insights", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"Rent","selected_city":"Colombo 3","locations":["Colombo 3"],"median_prices":[250000],"counts":[9]}`))
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predicted_price":350000,"shap_image_base64":"aGk=","top_features":[{"feature":"Sqft","impact":120000},{"feature":"Location_Colombo 3","impact":-20000}],"base_value":200000,"location_known":true}`))
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rent":{"r2":0.82},"sale":{"r2":0.79}}`))
	})
	return httptest.NewServer(mux)
}

func newGateway(t *testing.T, upstreamURL string) (*httptest.Server, *session.Manager) {
	t.Helper()
	client := valuation.NewClient(upstreamURL)
	m := session.NewManager(client, nil, time.Minute)
	t.Cleanup(m.Close)

	r := chi.NewRouter()
	RegisterSessions(r, SessionDeps{Manager: m})
	RegisterModelMetrics(r, MetricsDeps{Backend: client})
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, m
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, stateEnvelope) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var env stateEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
	return resp, env
}

func waitState(t *testing.T, url string, cond func(session.View) bool) session.View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var last session.View
	for time.Now().Before(deadline) {
		_, env := doJSON(t, http.MethodGet, url, nil)
		if cond(env.State) {
			return env.State
		}
		last = env.State
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("state condition not met; last: %+v", last)
	return session.View{}
}

func TestPredictionFlowEndToEnd(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	gw, _ := newGateway(t, upstream.URL)

	resp, env := doJSON(t, http.MethodPost, gw.URL+"/sessions", nil)
	if resp.StatusCode != http.StatusCreated || env.SessionID == "" {
		t.Fatalf("create session: status %d, env %+v", resp.StatusCode, env)
	}
	base := gw.URL + "/sessions/" + env.SessionID

	waitState(t, base, func(v session.View) bool {
		return !v.OptionsLoading && v.Market.State == session.MarketReady
	})

	_, env = doJSON(t, http.MethodPatch, base+"/input", map[string]string{
		"square_footage": "1200",
		"location":       "Colombo 03",
	})
	if env.State.Input.SquareFootage != "1200" || env.State.Input.Location != "Colombo 03" {
		t.Fatalf("patch did not apply: %+v", env.State.Input)
	}

	if _, env = doJSON(t, http.MethodPost, base+"/predict", nil); !env.Ok {
		t.Fatal("predict call failed")
	}
	v := waitState(t, base, func(v session.View) bool { return v.Prediction.Result != nil })
	if v.Prediction.Result.FormattedPrice != "LKR 350,000" {
		t.Errorf("formatted price = %q", v.Prediction.Result.FormattedPrice)
	}
	if len(v.Prediction.Result.TopFeatures) != 2 {
		t.Fatalf("expected 2 feature cards: %+v", v.Prediction.Result.TopFeatures)
	}
	if v.Prediction.Result.TopFeatures[1].Positive {
		t.Error("negative impact must render as a negative card")
	}

	// Image render failure is a degraded mode, not a submission failure.
	_, env = doJSON(t, http.MethodPost, base+"/image-error", nil)
	if !env.State.Prediction.ImageRenderFailed || env.State.Prediction.Result == nil {
		t.Errorf("image-error handling wrong: %+v", env.State.Prediction)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	gw, _ := newGateway(t, upstream.URL)

	resp, err := http.Get(gw.URL + "/sessions/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHistoryWithoutPersistence(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	gw, _ := newGateway(t, upstream.URL)

	_, env := doJSON(t, http.MethodPost, gw.URL+"/sessions", nil)
	resp, err := http.Get(gw.URL + "/sessions/" + env.SessionID + "/history")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Ok          bool  `json:"ok"`
		Persistence bool  `json:"persistence"`
		History     []any `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Ok || out.Persistence || len(out.History) != 0 {
		t.Errorf("unexpected history response: %+v", out)
	}
}

func TestModelMetricsPassThrough(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	gw, _ := newGateway(t, upstream.URL)

	resp, err := http.Get(gw.URL + "/model-metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["rent"]["r2"] != 0.82 {
		t.Errorf("metrics not passed through: %v", out)
	}
}
