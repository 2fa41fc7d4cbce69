package collector

import "stockwatch/internal/model"

// Fetcher defines the interface for fetching the latest quote of a symbol.
type Fetcher interface {
	FetchQuote(symbol string) (*model.Quote, error)
	Name() string
}
