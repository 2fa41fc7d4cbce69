package watcher

import (
	"context"
	"testing"
	"time"

	"stockwatch/internal/model"
	"stockwatch/internal/recorder"
)

// captureRecorder collects records in memory for assertions.
type captureRecorder struct {
	updates  []recorder.PriceRecord
	trends   []recorder.TrendEvent
	rejected []recorder.RejectedUpdate
}

func (c *captureRecorder) RecordUpdate(rec *recorder.PriceRecord) error {
	c.updates = append(c.updates, *rec)
	return nil
}

func (c *captureRecorder) RecordTrendEvent(evt *recorder.TrendEvent) error {
	c.trends = append(c.trends, *evt)
	return nil
}

func (c *captureRecorder) RecordRejected(evt *recorder.RejectedUpdate) error {
	c.rejected = append(c.rejected, *evt)
	return nil
}

func (c *captureRecorder) Close() error { return nil }

type captureBroadcaster struct {
	published []Update
}

func (c *captureBroadcaster) Publish(u Update) {
	c.published = append(c.published, u)
}

func quoteAt(price float64, day int) *model.Quote {
	return &model.Quote{
		Symbol:    "GOOG",
		Price:     price,
		Timestamp: time.Date(2014, 2, day, 0, 0, 0, 0, time.UTC),
		FetchedAt: time.Now(),
	}
}

func newTestWatcher(rec recorder.Recorder) *Watcher {
	return New(context.Background(), nil, "GOOG", rec, nil)
}

func TestApply_TrendTransitionIntoRising(t *testing.T) {
	rec := &captureRecorder{}
	bc := &captureBroadcaster{}
	w := newTestWatcher(rec)
	w.Broadcaster = bc

	for i, p := range []float64{8, 10, 12} {
		w.Apply(quoteAt(p, 11+i))
	}

	if len(rec.updates) != 3 {
		t.Fatalf("expected 3 recorded updates, got %d", len(rec.updates))
	}
	if len(rec.trends) != 1 {
		t.Fatalf("expected exactly 1 trend event, got %d", len(rec.trends))
	}
	evt := rec.trends[0]
	if evt.From != model.TrendInsufficientData || evt.To != model.TrendRising {
		t.Errorf("unexpected transition: %s -> %s", evt.From, evt.To)
	}
	if !evt.Notified {
		t.Error("entering a rising trend should trigger a notification")
	}
	if len(bc.published) != 3 {
		t.Fatalf("expected 3 broadcasts, got %d", len(bc.published))
	}
	last := bc.published[2]
	if last.Trend != model.TrendRising || last.Price != 12 || last.Updates != 3 {
		t.Errorf("unexpected final broadcast: %+v", last)
	}
}

func TestApply_NoRepeatEventWhileTrendPersists(t *testing.T) {
	rec := &captureRecorder{}
	w := newTestWatcher(rec)

	for i, p := range []float64{8, 10, 12, 14} {
		w.Apply(quoteAt(p, 11+i))
	}

	if len(rec.trends) != 1 {
		t.Fatalf("rising trend persisting should not emit another event, got %d events", len(rec.trends))
	}
}

func TestApply_TrendFallsBackToMixed(t *testing.T) {
	rec := &captureRecorder{}
	w := newTestWatcher(rec)

	for i, p := range []float64{8, 10, 12, 11} {
		w.Apply(quoteAt(p, 11+i))
	}

	if len(rec.trends) != 2 {
		t.Fatalf("expected 2 trend events, got %d", len(rec.trends))
	}
	evt := rec.trends[1]
	if evt.From != model.TrendRising || evt.To != model.TrendFlatOrMixed {
		t.Errorf("unexpected transition: %s -> %s", evt.From, evt.To)
	}
	if evt.Notified {
		t.Error("leaving a rising trend should not notify")
	}
}

func TestApply_NegativePriceRejected(t *testing.T) {
	rec := &captureRecorder{}
	w := newTestWatcher(rec)

	w.Apply(quoteAt(10, 12))
	w.Apply(quoteAt(-1, 13))

	if len(rec.rejected) != 1 {
		t.Fatalf("expected 1 rejected record, got %d", len(rec.rejected))
	}
	if len(rec.updates) != 1 {
		t.Fatalf("rejected update must not be recorded as accepted, got %d", len(rec.updates))
	}
	price, ok, updates, _ := w.Snapshot()
	if !ok || price != 10 {
		t.Errorf("expected price to remain 10, got %v (ok=%v)", price, ok)
	}
	if updates != 1 {
		t.Errorf("expected 1 update in history, got %d", updates)
	}
}

func TestSnapshot_EmptyHistory(t *testing.T) {
	w := newTestWatcher(&captureRecorder{})
	_, ok, updates, trend := w.Snapshot()
	if ok {
		t.Error("expected no price before any update")
	}
	if updates != 0 {
		t.Errorf("expected 0 updates, got %d", updates)
	}
	if trend != model.TrendInsufficientData {
		t.Errorf("expected INSUFFICIENT_DATA, got %s", trend)
	}
}

func TestHandleCommand(t *testing.T) {
	w := newTestWatcher(&captureRecorder{})

	if got := w.HandleCommand("/price"); got != "GOOG: no price recorded yet" {
		t.Errorf("unexpected /price reply: %q", got)
	}

	w.Apply(quoteAt(142.5, 12))
	if got := w.HandleCommand("/price"); got != "GOOG: 142.50" {
		t.Errorf("unexpected /price reply: %q", got)
	}
	if got := w.HandleCommand("/trend"); got != "GOOG trend: INSUFFICIENT_DATA" {
		t.Errorf("unexpected /trend reply: %q", got)
	}
	if got := w.HandleCommand("/bogus"); got == "" {
		t.Error("unknown command should return help text")
	}
}
