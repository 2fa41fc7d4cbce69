package stock

import (
	"errors"
	"math"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2014, 2, d, 0, 0, 0, 0, time.UTC)
}

func TestNewStock_PriceAbsent(t *testing.T) {
	goog := New("GOOG")
	if _, ok := goog.Price(); ok {
		t.Error("expected no price for a new stock")
	}
	if goog.Count() != 0 {
		t.Errorf("expected empty history, got %d updates", goog.Count())
	}
}

func TestUpdate_SetsPrice(t *testing.T) {
	goog := New("GOOG")
	if err := goog.Update(day(12), 10); err != nil {
		t.Fatalf("update: %v", err)
	}
	p, ok := goog.Price()
	if !ok {
		t.Fatal("expected a price after update")
	}
	if p != 10 {
		t.Errorf("expected price 10, got %v", p)
	}
}

func TestUpdate_NegativePriceRejected(t *testing.T) {
	goog := New("GOOG")
	err := goog.Update(day(13), -1)
	if err == nil {
		t.Fatal("expected error for negative price")
	}
	if !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
	if _, ok := goog.Price(); ok {
		t.Error("rejected update must not touch the history")
	}
}

func TestUpdate_FailedUpdateKeepsPreviousPrice(t *testing.T) {
	goog := New("GOOG")
	if err := goog.Update(day(12), 10); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := goog.Update(day(13), -1); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	p, ok := goog.Price()
	if !ok || p != 10 {
		t.Errorf("expected price to remain 10, got %v (ok=%v)", p, ok)
	}
	if goog.Count() != 1 {
		t.Errorf("expected 1 update in history, got %d", goog.Count())
	}
}

func TestPrice_GivesLatestPrice(t *testing.T) {
	goog := New("GOOG")
	if err := goog.Update(day(12), 10); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := goog.Update(day(13), 8.4); err != nil {
		t.Fatalf("update: %v", err)
	}
	p, ok := goog.Price()
	if !ok {
		t.Fatal("expected a price")
	}
	if math.Abs(p-8.4) > 0.0001 {
		t.Errorf("expected latest price 8.4, got %v", p)
	}
}

func TestPrice_ZeroIsAValidPrice(t *testing.T) {
	goog := New("GOOG")
	if err := goog.Update(day(12), 0); err != nil {
		t.Fatalf("update with zero price should succeed: %v", err)
	}
	p, ok := goog.Price()
	if !ok {
		t.Fatal("expected a price after a zero-price update")
	}
	if p != 0 {
		t.Errorf("expected price 0, got %v", p)
	}
}

func TestIsIncreasingTrend(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   bool
	}{
		{"no updates", nil, false},
		{"one update", []float64{10}, false},
		{"two updates", []float64{8, 10}, false},
		{"three increasing", []float64{8, 10, 12}, true},
		{"three decreasing", []float64{12, 10, 8}, false},
		{"equal neighbors break strictness", []float64{10, 10, 12}, false},
		{"equal tail breaks strictness", []float64{8, 10, 10}, false},
		{"only trailing three matter", []float64{100, 2, 4, 6}, true},
		{"dip inside trailing three", []float64{8, 12, 10, 14}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goog := New("GOOG")
			for i, p := range tt.prices {
				if err := goog.Update(day(11).AddDate(0, 0, i), p); err != nil {
					t.Fatalf("update %d: %v", i, err)
				}
			}
			if got := goog.IsIncreasingTrend(); got != tt.want {
				t.Errorf("prices %v: expected trend %v, got %v", tt.prices, tt.want, got)
			}
		})
	}
}

func TestUpdate_OutOfOrderTimestampsAccepted(t *testing.T) {
	// Latest is defined by insertion order, not by timestamp value.
	goog := New("GOOG")
	if err := goog.Update(day(13), 12); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := goog.Update(day(11), 9); err != nil {
		t.Fatalf("out-of-order timestamp should be accepted: %v", err)
	}
	p, _ := goog.Price()
	if p != 9 {
		t.Errorf("expected last-inserted price 9, got %v", p)
	}
}
