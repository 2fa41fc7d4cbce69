package model

import "time"

// Quote is a normalized price observation from a data source.
type Quote struct {
	Symbol    string
	Price     float64
	Timestamp time.Time
	FetchedAt time.Time
}
