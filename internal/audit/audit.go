package audit

import (
	"context"
	"log"
	"time"

	"github.com/prathibha999-pd/realvalueAI/internal/events"
)

// Trail consumes prediction.recorded events and writes an audit line per
// persisted prediction.
type Trail struct {
	Pub events.Publisher
}

func (t *Trail) Run(ctx context.Context) {
	sub := t.Pub.SubscribePredictionRecorded()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub:
			log.Printf("audit: prediction.recorded id=%s session=%s price=%.0f at=%s",
				evt.ID, evt.SessionID, evt.PredictedPrice, time.Now().Format(time.RFC3339))
		}
	}
}
