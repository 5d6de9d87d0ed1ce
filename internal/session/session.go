package session

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/prathibha999-pd/realvalueAI/internal/history"
	"github.com/prathibha999-pd/realvalueAI/internal/options"
	"github.com/prathibha999-pd/realvalueAI/internal/validate"
	"github.com/prathibha999-pd/realvalueAI/valuation"
)

// Backend is the slice of the valuation API a session drives.
type Backend interface {
	FormOptions(ctx context.Context) (*valuation.FormOptions, error)
	MarketInsights(ctx context.Context, q valuation.MarketQuery) (*valuation.MarketInsights, error)
	Predict(ctx context.Context, req valuation.PredictRequest) (*valuation.Prediction, error)
}

var ErrSessionClosed = errors.New("session closed")

const (
	optionsTimeout = 10 * time.Second
	marketTimeout  = 15 * time.Second
	predictTimeout = 30 * time.Second
)

// FormInput holds the raw form fields. Values are stored as entered and
// validated only at submission boundaries.
type FormInput struct {
	SquareFootage     string `json:"square_footage"`
	Location          string `json:"location"`
	PropertyType      string `json:"property_type"`
	TransactionStatus string `json:"transaction_status"`
}

// InputPatch is a partial edit; nil fields are left untouched.
type InputPatch struct {
	SquareFootage     *string
	Location          *string
	PropertyType      *string
	TransactionStatus *string
}

// MarketState discriminates the market panel's condition. NoData ("the
// backend found nothing for this category") and Unavailable ("the backend
// could not answer") are deliberately distinct states, not error strings.
type MarketState string

const (
	MarketIdle        MarketState = "idle"
	MarketLoading     MarketState = "loading"
	MarketReady       MarketState = "ready"
	MarketNoData      MarketState = "no_data"
	MarketUnavailable MarketState = "unavailable"
)

// Session owns the view state for one page session. All mutable state lives
// on a single goroutine fed by the message channel; user commands and async
// completions are serialized there, so no locks guard the fields below.
type Session struct {
	ID string

	backend  Backend
	recorder *history.Recorder

	msgs   chan message
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	lastActive atomic.Int64

	// Loop-owned state. Never touched outside loop().
	catalog         options.Catalog
	catalogFallback bool
	optionsLoading  bool
	input           FormInput
	sqftError       string

	marketGen   uint64
	marketState MarketState
	marketError string
	market      *valuation.MarketInsights

	predictLoading    bool
	prediction        *valuation.Prediction
	predictionError   string
	imageRenderFailed bool
}

type message interface{ isMessage() }

type editMsg struct {
	patch InputPatch
	reply chan View
}
type submitMsg struct{ reply chan View }
type imageErrorMsg struct{ reply chan View }
type viewMsg struct{ reply chan View }

type optionsLoadedMsg struct {
	catalog  options.Catalog
	fallback bool
}
type marketDoneMsg struct {
	gen uint64
	res *valuation.MarketInsights
	err error
}
type predictDoneMsg struct {
	res *valuation.Prediction
	err error
}

func (editMsg) isMessage()          {}
func (submitMsg) isMessage()        {}
func (imageErrorMsg) isMessage()    {}
func (viewMsg) isMessage()          {}
func (optionsLoadedMsg) isMessage() {}
func (marketDoneMsg) isMessage()    {}
func (predictDoneMsg) isMessage()   {}

// New starts a session and kicks off its single option-catalog load.
func New(id string, backend Backend, recorder *history.Recorder) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:             id,
		backend:        backend,
		recorder:       recorder,
		msgs:           make(chan message, 64),
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
		optionsLoading: true,
		marketState:    MarketIdle,
	}
	s.touch()
	go s.loop()
	go s.loadOptions()
	return s
}

// Close tears the session down. Pending repliers unblock with ErrSessionClosed.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

// LastActive reports the last time a user-facing call touched the session.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// ApplyInput applies a partial edit. Editing any field re-arms the market
// sync; editing square footage also clears its field-level error.
func (s *Session) ApplyInput(ctx context.Context, patch InputPatch) (View, error) {
	return s.roundTrip(ctx, func(reply chan View) message { return editMsg{patch: patch, reply: reply} })
}

// Submit triggers one prediction attempt. Invalid input aborts before any
// network activity.
func (s *Session) Submit(ctx context.Context) (View, error) {
	return s.roundTrip(ctx, func(reply chan View) message { return submitMsg{reply: reply} })
}

// ReportImageError records that the explanation image failed to render on the
// page. The numeric result stays valid.
func (s *Session) ReportImageError(ctx context.Context) (View, error) {
	return s.roundTrip(ctx, func(reply chan View) message { return imageErrorMsg{reply: reply} })
}

// View returns the current reconciled view state.
func (s *Session) View(ctx context.Context) (View, error) {
	return s.roundTrip(ctx, func(reply chan View) message { return viewMsg{reply: reply} })
}

func (s *Session) roundTrip(ctx context.Context, build func(chan View) message) (View, error) {
	s.touch()
	reply := make(chan View, 1)
	select {
	case s.msgs <- build(reply):
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.ctx.Done():
		return View{}, ErrSessionClosed
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.ctx.Done():
		return View{}, ErrSessionClosed
	}
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case m := <-s.msgs:
			switch m := m.(type) {
			case editMsg:
				s.handleEdit(m.patch)
				m.reply <- s.buildView()
			case submitMsg:
				s.handleSubmit()
				m.reply <- s.buildView()
			case imageErrorMsg:
				if s.prediction != nil {
					s.imageRenderFailed = true
				}
				m.reply <- s.buildView()
			case viewMsg:
				m.reply <- s.buildView()
			case optionsLoadedMsg:
				s.handleOptionsLoaded(m)
			case marketDoneMsg:
				s.handleMarketDone(m)
			case predictDoneMsg:
				s.handlePredictDone(m)
			}
		}
	}
}

// loadOptions runs once per session, off the loop goroutine.
func (s *Session) loadOptions() {
	ctx, cancel := context.WithTimeout(s.ctx, optionsTimeout)
	defer cancel()
	cat, fallback := options.Load(ctx, s.backend)
	select {
	case s.msgs <- optionsLoadedMsg{catalog: cat, fallback: fallback}:
	case <-s.ctx.Done():
	}
}

func (s *Session) handleOptionsLoaded(m optionsLoadedMsg) {
	s.catalog = m.catalog
	s.catalogFallback = m.fallback
	s.optionsLoading = false

	// Defaults fill only fields the user has not already set.
	loc, pt, st := m.catalog.Defaults()
	changed := false
	if s.input.Location == "" && loc != "" {
		s.input.Location = loc
		changed = true
	}
	if s.input.PropertyType == "" && pt != "" {
		s.input.PropertyType = pt
		changed = true
	}
	if s.input.TransactionStatus == "" && st != "" {
		s.input.TransactionStatus = st
		changed = true
	}
	if changed {
		s.maybeStartMarketSync()
	}
}

func (s *Session) handleEdit(patch InputPatch) {
	changed := false
	if patch.SquareFootage != nil && *patch.SquareFootage != s.input.SquareFootage {
		s.input.SquareFootage = *patch.SquareFootage
		changed = true
	}
	if patch.SquareFootage != nil {
		// Field feedback clears on the next edit, valid or not.
		s.sqftError = ""
	}
	if patch.Location != nil && *patch.Location != s.input.Location {
		s.input.Location = *patch.Location
		changed = true
	}
	if patch.PropertyType != nil && *patch.PropertyType != s.input.PropertyType {
		s.input.PropertyType = *patch.PropertyType
		changed = true
	}
	if patch.TransactionStatus != nil && *patch.TransactionStatus != s.input.TransactionStatus {
		s.input.TransactionStatus = *patch.TransactionStatus
		changed = true
	}
	if changed {
		s.maybeStartMarketSync()
	}
}

// maybeStartMarketSync issues a market fetch for the current input snapshot.
// Each fetch carries a generation number; only the completion matching the
// latest issued generation may update state, so superseded responses are
// ignored regardless of arrival order.
func (s *Session) maybeStartMarketSync() {
	in := s.input
	if in.Location == "" || in.PropertyType == "" || in.TransactionStatus == "" {
		return
	}

	s.marketGen++
	gen := s.marketGen
	s.marketState = MarketLoading
	s.marketError = ""

	sqft := in.SquareFootage
	if sqft == "" {
		sqft = "0"
	}
	q := valuation.MarketQuery{
		Status:       in.TransactionStatus,
		Location:     in.Location,
		Sqft:         sqft,
		PropertyType: in.PropertyType,
	}

	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, marketTimeout)
		defer cancel()
		res, err := s.backend.MarketInsights(ctx, q)
		select {
		case s.msgs <- marketDoneMsg{gen: gen, res: res, err: err}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) handleMarketDone(m marketDoneMsg) {
	if m.gen != s.marketGen {
		log.Printf("[INFO] session %s: dropping superseded market result (gen %d, latest %d)", s.ID, m.gen, s.marketGen)
		return
	}
	switch {
	case m.err != nil:
		s.market = nil
		s.marketState = MarketUnavailable
		if valuation.IsBackendStatus(m.err) {
			s.marketError = "the market data service returned an error"
		} else {
			s.marketError = "the market data service is unreachable"
		}
		log.Printf("[WARN] session %s: market insights failed: %v", s.ID, m.err)
	case m.res.Empty():
		s.market = nil
		s.marketState = MarketNoData
		s.marketError = "no market data for this category yet"
	default:
		s.market = m.res
		s.marketState = MarketReady
		s.marketError = ""
	}
}

func (s *Session) handleSubmit() {
	if s.predictLoading {
		// A submission is already in flight; the form is disabled client-side,
		// so a duplicate here is a race we simply ignore.
		return
	}

	sqft, reason := validate.Sqft(s.input.SquareFootage)
	if reason != "" {
		// Field-level feedback only. No network call, and whatever result is
		// currently displayed stays untouched.
		s.sqftError = reason
		return
	}

	s.sqftError = ""
	s.predictionError = ""
	s.prediction = nil
	s.predictLoading = true

	req := valuation.PredictRequest{
		Sqft:         sqft,
		Location:     s.input.Location,
		PropertyType: s.input.PropertyType,
		Status:       s.input.TransactionStatus,
	}
	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, predictTimeout)
		defer cancel()
		res, err := s.backend.Predict(ctx, req)
		select {
		case s.msgs <- predictDoneMsg{res: res, err: err}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) handlePredictDone(m predictDoneMsg) {
	s.predictLoading = false
	if m.err != nil {
		// The prior result was cleared when the attempt started; a failed
		// resubmission must not resurrect it.
		s.prediction = nil
		if valuation.IsBackendStatus(m.err) {
			s.predictionError = "the valuation service could not price this property"
		} else {
			s.predictionError = "the valuation service is unreachable"
		}
		log.Printf("[WARN] session %s: prediction failed: %v", s.ID, m.err)
		return
	}

	s.prediction = m.res
	s.predictionError = ""
	s.imageRenderFailed = false

	s.recorder.Enqueue(history.Record{
		SessionID:      s.ID,
		Sqft:           mustSqft(s.input.SquareFootage),
		Location:       s.input.Location,
		PropertyType:   s.input.PropertyType,
		Status:         s.input.TransactionStatus,
		PredictedPrice: m.res.PredictedPrice,
		BaseValue:      m.res.BaseValue,
		LocationKnown:  m.res.LocationKnown,
	})
}

// mustSqft re-parses the stored text. The field may have been edited while a
// submission was in flight, so a parse failure here just records zero.
func mustSqft(raw string) float64 {
	v, reason := validate.Sqft(raw)
	if reason != "" {
		return 0
	}
	return v
}
