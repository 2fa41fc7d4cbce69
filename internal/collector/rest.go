package collector

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stockwatch/internal/model"
)

// RESTFetcher implements Fetcher against a generic quote REST API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restQuote is the expected JSON shape from the quote endpoint.
type restQuote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// FetchQuote calls GET {base}/api/v1/quote?symbol=... with an optional
// Bearer token.
func (f *RESTFetcher) FetchQuote(symbol string) (*model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch quote: status %d", resp.StatusCode)
	}
	var q restQuote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}

	ts := time.Now()
	if q.Timestamp > 0 {
		ts = time.Unix(q.Timestamp, 0)
	}
	return &model.Quote{
		Symbol:    symbol,
		Price:     q.Price,
		Timestamp: ts,
		FetchedAt: time.Now(),
	}, nil
}
