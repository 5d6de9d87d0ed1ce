package history

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/prathibha999-pd/realvalueAI/internal/events"
	"github.com/prathibha999-pd/realvalueAI/internal/store"
)

// Record is one successful prediction worth persisting.
type Record struct {
	SessionID      string
	Sqft           float64
	Location       string
	PropertyType   string
	Status         string
	PredictedPrice float64
	BaseValue      float64
	LocationKnown  bool
}

// Recorder persists predictions write-behind so the submission path never
// waits on the database. Records are dropped (with a warning) when the queue
// is saturated; history is best-effort by design of the calling flow, which
// already has its result by the time a record is enqueued.
type Recorder struct {
	ch    chan Record
	store *store.Store
	pub   events.Publisher
}

func New(st *store.Store, pub events.Publisher, capacity, workerCount int) *Recorder {
	if capacity <= 0 { capacity = 256 }
	if workerCount <= 0 { workerCount = 2 }
	r := &Recorder{ch: make(chan Record, capacity), store: st, pub: pub}
	for i := 0; i < workerCount; i++ {
		go r.worker()
	}
	return r
}

func (r *Recorder) Enabled() bool { return r != nil && r.store != nil }

// Enqueue hands a record to the background workers. Safe on a nil Recorder.
func (r *Recorder) Enqueue(rec Record) {
	if !r.Enabled() {
		return
	}
	select {
	case r.ch <- rec:
	default:
		log.Printf("[WARN] prediction history queue saturated, dropping record for session %s", rec.SessionID)
	}
}

func (r *Recorder) worker() {
	for rec := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		id, err := r.store.InsertPrediction(ctx, store.PredictionInput{
			SessionID:      rec.SessionID,
			Sqft:           rec.Sqft,
			Location:       rec.Location,
			PropertyType:   rec.PropertyType,
			Status:         rec.Status,
			PredictedPrice: rec.PredictedPrice,
			BaseValue:      sqlNullFloat(rec.BaseValue),
			LocationKnown:  rec.LocationKnown,
		})
		if err != nil {
			log.Printf("[WARN] unable to persist prediction for session %s: %v", rec.SessionID, err)
		} else if r.pub != nil {
			r.pub.PublishPredictionRecorded(ctx, events.PredictionRecorded{
				ID:             id,
				SessionID:      rec.SessionID,
				PredictedPrice: rec.PredictedPrice,
			})
		}
		cancel()
	}
}

func sqlNullFloat(v float64) sql.NullFloat64 {
	if v == 0 { return sql.NullFloat64{} }
	return sql.NullFloat64{Float64: v, Valid: true}
}
