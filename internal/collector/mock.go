package collector

import (
	"time"

	"stockwatch/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// When Prices is set, successive calls walk through it and then repeat the
// last entry; otherwise Price is returned every time.
type MockFetcher struct {
	Price  float64
	Prices []float64
	Err    error

	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(symbol string) (*model.Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	price := m.Price
	if len(m.Prices) > 0 {
		i := m.calls
		if i >= len(m.Prices) {
			i = len(m.Prices) - 1
		}
		price = m.Prices[i]
	}
	m.calls++
	return &model.Quote{
		Symbol:    symbol,
		Price:     price,
		Timestamp: time.Now(),
		FetchedAt: time.Now(),
	}, nil
}

// Calls returns how many quotes were served.
func (m *MockFetcher) Calls() int { return m.calls }
