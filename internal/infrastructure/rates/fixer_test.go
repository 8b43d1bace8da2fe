package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenmetrics/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(config.RatesConfig{Endpoint: server.URL, AccessKey: "test-key"})
	c.http = server.Client()
	return c
}

func TestFetchRate(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2022-12-31" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("access_key") != "test-key" {
			t.Errorf("unexpected access_key: %s", q.Get("access_key"))
		}
		if q.Get("base") != "EUR" || q.Get("symbols") != "USD" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"success": true, "rates": {"USD": 1.0666}}`))
	})

	rate, err := c.FetchRate(context.Background(), 2022)
	if err != nil {
		t.Fatalf("FetchRate error: %v", err)
	}
	if rate != 1.0666 {
		t.Fatalf("expected 1.0666, got %v", rate)
	}
}

func TestFetchRateMissingUSD(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "rates": {}}`))
	})

	if _, err := c.FetchRate(context.Background(), 2021); err == nil {
		t.Fatal("expected error when USD rate is missing")
	}
}

func TestFetchRateServerError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	if _, err := c.FetchRate(context.Background(), 2021); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
