package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRESTFetcher_FetchQuote(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"GOOG","price":142.5,"timestamp":1392163200}`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "")
	q, err := f.FetchQuote("GOOG")
	if err != nil {
		t.Fatalf("fetch quote: %v", err)
	}
	if q.Price != 142.5 {
		t.Errorf("expected price 142.5, got %v", q.Price)
	}
	if q.Symbol != "GOOG" {
		t.Errorf("expected symbol GOOG, got %q", q.Symbol)
	}
	if q.Timestamp.Unix() != 1392163200 {
		t.Errorf("unexpected timestamp: %v", q.Timestamp)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if gotPath != "/api/v1/quote?symbol=GOOG" {
		t.Errorf("unexpected request path: %q", gotPath)
	}
}

func TestRESTFetcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "")
	if _, err := f.FetchQuote("GOOG"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestYahooFetcher_FetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":5800.25,"regularMarketTime":1392163200}}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	q, err := f.FetchQuote("SPX500")
	if err != nil {
		t.Fatalf("fetch quote: %v", err)
	}
	if q.Price != 5800.25 {
		t.Errorf("expected price 5800.25, got %v", q.Price)
	}
	if q.Symbol != "SPX500" {
		t.Errorf("quote should carry the internal symbol, got %q", q.Symbol)
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	if _, err := f.FetchQuote("NOPE"); err == nil {
		t.Fatal("expected error from yahoo error payload")
	}
}

func TestMockFetcher_ScriptedPrices(t *testing.T) {
	m := &MockFetcher{Prices: []float64{8, 10, 12}}
	want := []float64{8, 10, 12, 12}
	for i, w := range want {
		q, err := m.FetchQuote("GOOG")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if q.Price != w {
			t.Errorf("call %d: expected %v, got %v", i, w, q.Price)
		}
	}
	if m.Calls() != 4 {
		t.Errorf("expected 4 calls, got %d", m.Calls())
	}
}
