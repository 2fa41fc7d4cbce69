package watcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"stockwatch/internal/collector"
	"stockwatch/internal/model"
	"stockwatch/internal/notifier"
	"stockwatch/internal/recorder"
	"stockwatch/internal/stock"

	"github.com/robfig/cron/v3"
)

// Update is the snapshot pushed to the Broadcaster after every accepted
// price update.
type Update struct {
	Symbol    string           `json:"symbol"`
	Price     float64          `json:"price"`
	Timestamp time.Time        `json:"timestamp"`
	Trend     model.TrendState `json:"trend"`
	Updates   int              `json:"updates"`
}

// Broadcaster receives accepted updates, e.g. to stream them to clients.
type Broadcaster interface {
	Publish(u Update)
}

// Watcher manages the cron tasks that keep a single Stock up to date.
//
// The Stock itself is unsynchronized, so all access goes through the
// Watcher's mutex.
type Watcher struct {
	Cron        *cron.Cron
	Fetcher     collector.Fetcher
	Recorder    recorder.Recorder
	Notifier    *notifier.TelegramNotifier
	Broadcaster Broadcaster
	Calendar    *MarketCalendar
	Ctx         context.Context

	mu        sync.Mutex
	stock     *stock.Stock
	lastTrend model.TrendState
}

// New creates a Watcher tracking the given symbol.
func New(ctx context.Context, fetcher collector.Fetcher, symbol string, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Watcher {
	return &Watcher{
		Cron:      cron.New(cron.WithSeconds()),
		Fetcher:   fetcher,
		Recorder:  rec,
		Notifier:  tn,
		Ctx:       ctx,
		stock:     stock.New(symbol),
		lastTrend: model.TrendInsufficientData,
	}
}

// Register registers the poll and daily summary tasks.
func (w *Watcher) Register(pollCron, summaryCron string) error {
	if _, err := w.Cron.AddFunc(pollCron, w.poll); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	if _, err := w.Cron.AddFunc(summaryCron, w.dailySummary); err != nil {
		return fmt.Errorf("register summary task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (w *Watcher) Start() {
	w.Cron.Start()
	log.Println("[INFO] watcher started")
}

// Stop stops the cron scheduler gracefully.
func (w *Watcher) Stop() {
	w.Cron.Stop()
	log.Println("[INFO] watcher stopped")
}

// RunPollNow executes the poll task immediately (for manual trigger / RUN_ON_START).
func (w *Watcher) RunPollNow() {
	w.poll()
}

func (w *Watcher) poll() {
	if w.Calendar != nil && !w.Calendar.IsOpen(time.Now()) {
		log.Println("[INFO] market closed, skipping poll")
		return
	}

	quote, err := w.Fetcher.FetchQuote(w.Symbol())
	if err != nil {
		log.Printf("[ERROR] fetch quote: %v", err)
		return
	}

	w.Apply(quote)
}

// Apply validates and applies a quote to the tracked stock, then records,
// alerts and broadcasts as needed.
func (w *Watcher) Apply(quote *model.Quote) {
	w.mu.Lock()
	prev := w.lastTrend

	if err := w.stock.Update(quote.Timestamp, quote.Price); err != nil {
		w.mu.Unlock()
		if errors.Is(err, stock.ErrInvalidPrice) {
			log.Printf("[WARN] rejected update for %s: price %.4f: %v", quote.Symbol, quote.Price, err)
			if recErr := w.Recorder.RecordRejected(&recorder.RejectedUpdate{
				Symbol:    quote.Symbol,
				Price:     quote.Price,
				Timestamp: quote.Timestamp,
				Reason:    err.Error(),
			}); recErr != nil {
				log.Printf("[ERROR] record rejected update: %v", recErr)
			}
			return
		}
		log.Printf("[ERROR] update stock: %v", err)
		return
	}

	price, _ := w.stock.Price()
	updates := w.stock.Count()
	cur := model.ClassifyTrend(updates, w.stock.IsIncreasingTrend())
	w.lastTrend = cur
	w.mu.Unlock()

	if err := w.Recorder.RecordUpdate(&recorder.PriceRecord{
		Symbol:    quote.Symbol,
		Price:     quote.Price,
		Timestamp: quote.Timestamp,
		FetchedAt: quote.FetchedAt,
	}); err != nil {
		log.Printf("[ERROR] record update: %v", err)
	}

	if cur != prev {
		notified := false
		// Alert only on the transition into a rising trend, not on every
		// poll while it persists.
		if cur == model.TrendRising {
			w.trySend(notifier.FormatTrendAlert(quote.Symbol, price, quote.Timestamp))
			notified = true
		}
		if err := w.Recorder.RecordTrendEvent(&recorder.TrendEvent{
			Symbol:   quote.Symbol,
			From:     prev,
			To:       cur,
			Price:    price,
			Updates:  updates,
			Notified: notified,
		}); err != nil {
			log.Printf("[ERROR] record trend event: %v", err)
		}
	}

	if w.Broadcaster != nil {
		w.Broadcaster.Publish(Update{
			Symbol:    quote.Symbol,
			Price:     price,
			Timestamp: quote.Timestamp,
			Trend:     cur,
			Updates:   updates,
		})
	}
}

func (w *Watcher) dailySummary() {
	log.Println("[INFO] running daily summary")
	price, ok, updates, trend := w.Snapshot()
	w.trySend(notifier.FormatDailySummary(w.Symbol(), price, ok, updates, trend))
}

// Snapshot returns the current price (with presence flag), update count and
// trend state.
func (w *Watcher) Snapshot() (price float64, ok bool, updates int, trend model.TrendState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	price, ok = w.stock.Price()
	return price, ok, w.stock.Count(), w.lastTrend
}

// HandleCommand processes a user command and returns a reply.
func (w *Watcher) HandleCommand(command string) string {
	switch command {
	case "/price":
		price, ok, _, _ := w.Snapshot()
		if !ok {
			return fmt.Sprintf("%s: no price recorded yet", w.Symbol())
		}
		return fmt.Sprintf("%s: %.2f", w.Symbol(), price)
	case "/trend":
		_, _, _, trend := w.Snapshot()
		return fmt.Sprintf("%s trend: %s", w.Symbol(), trend)
	case "/status":
		price, ok, updates, trend := w.Snapshot()
		return notifier.FormatStatus(w.Symbol(), price, ok, updates, trend)
	default:
		return "Available commands:\n• /price\n• /trend\n• /status"
	}
}

// Symbol returns the watched instrument's symbol.
func (w *Watcher) Symbol() string {
	return w.stock.Symbol
}

func (w *Watcher) trySend(text string) {
	if w.Notifier == nil {
		return
	}
	if err := w.Notifier.SendWithRetry(w.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
