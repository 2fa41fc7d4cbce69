package recorder

import (
	"time"

	"stockwatch/internal/model"
)

// PriceRecord holds one accepted price update.
type PriceRecord struct {
	Symbol    string
	Price     float64
	Timestamp time.Time
	FetchedAt time.Time
}

// TrendEvent records a change of the trend state.
type TrendEvent struct {
	Symbol   string
	From     model.TrendState
	To       model.TrendState
	Price    float64
	Updates  int
	Notified bool
}

// RejectedUpdate records an update that failed validation.
type RejectedUpdate struct {
	Symbol    string
	Price     float64
	Timestamp time.Time
	Reason    string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordUpdate(rec *PriceRecord) error
	RecordTrendEvent(evt *TrendEvent) error
	RecordRejected(evt *RejectedUpdate) error
	Close() error
}
