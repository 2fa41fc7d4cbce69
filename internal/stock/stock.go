package stock

import (
	"errors"
	"time"
)

// ErrInvalidPrice is returned by Update when the given price is negative.
var ErrInvalidPrice = errors.New("price must not be negative")

// PriceUpdate is a single immutable price observation.
type PriceUpdate struct {
	Timestamp time.Time
	Price     float64
}

// Stock holds the price history of a single instrument and derives a simple
// trend signal from it. The history is append-only: updates are never removed
// or rewritten, and "latest" always means the last update applied, regardless
// of the timestamp values supplied.
//
// A Stock is not safe for concurrent use; callers that share one instance
// across goroutines must synchronize externally.
type Stock struct {
	Symbol  string
	history []PriceUpdate
}

// New creates a Stock with the given symbol and an empty history.
func New(symbol string) *Stock {
	return &Stock{Symbol: symbol}
}

// Update appends a price observation to the history. A negative price is
// rejected with ErrInvalidPrice and leaves the history unchanged.
func (s *Stock) Update(timestamp time.Time, price float64) error {
	if price < 0 {
		return ErrInvalidPrice
	}
	s.history = append(s.history, PriceUpdate{Timestamp: timestamp, Price: price})
	return nil
}

// Price returns the most recently recorded price. The second return value is
// false when no update has been recorded yet; a zero price is a legitimate
// value and is not used as an absence marker.
func (s *Stock) Price() (float64, bool) {
	if len(s.history) == 0 {
		return 0, false
	}
	return s.history[len(s.history)-1].Price, true
}

// IsIncreasingTrend reports whether the last three recorded prices form a
// strictly increasing sequence. With fewer than three updates there is not
// enough data to claim a trend and the result is false.
func (s *Stock) IsIncreasingTrend() bool {
	n := len(s.history)
	if n < 3 {
		return false
	}
	p1 := s.history[n-3].Price
	p2 := s.history[n-2].Price
	p3 := s.history[n-1].Price
	return p1 < p2 && p2 < p3
}

// Count returns the number of recorded updates.
func (s *Stock) Count() int {
	return len(s.history)
}
