package events

import (
	"context"
)

type PredictionRecorded struct {
	ID             string
	SessionID      string
	PredictedPrice float64
}

type Publisher interface {
	PublishPredictionRecorded(ctx context.Context, evt PredictionRecorded)
	SubscribePredictionRecorded() <-chan PredictionRecorded
}

type inMemory struct{ ch chan PredictionRecorded }

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 { buffer = 256 }
	return &inMemory{ch: make(chan PredictionRecorded, buffer)}
}

func (m *inMemory) PublishPredictionRecorded(_ context.Context, evt PredictionRecorded) {
	select { case m.ch <- evt: default: }
}

func (m *inMemory) SubscribePredictionRecorded() <-chan PredictionRecorded { return m.ch }
