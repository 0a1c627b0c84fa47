package refclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"golang.org/x/time/rate"
)

func TestFetchStateSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stateVectorResponse{
			Position: [3]float64{1, 0, 0},
			Velocity: [3]float64{0, 0.017, 0},
			Time:     2451545.0,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithRateLimit(rate.Inf, 1))
	sv, err := c.FetchState(context.Background(), "earth-analog", 2451545.0)
	if err != nil {
		t.Fatalf("FetchState: %v", err)
	}
	if sv.Position.X != 1 {
		t.Errorf("Position.X = %v, want 1", sv.Position.X)
	}
}

func TestFetchStateRetriesTransientFailures(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(stateVectorResponse{Time: 2451545.0})
	}))
	defer srv.Close()

	c := New(srv.URL, WithRateLimit(rate.Inf, 1), WithMaxRetries(5))
	if _, err := c.FetchState(context.Background(), "earth-analog", 2451545.0); err != nil {
		t.Fatalf("FetchState: %v", err)
	}
	if atomic.LoadInt32(&attempts) < 3 {
		t.Errorf("expected at least 3 attempts, got %d", attempts)
	}
}

func TestFetchStateGivesUpOnPermanentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, WithRateLimit(rate.Inf, 1), WithMaxRetries(3))
	if _, err := c.FetchState(context.Background(), "unknown", 2451545.0); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

func TestFetchStateHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stateVectorResponse{})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, WithRateLimit(rate.Limit(0.001), 1))
	if _, err := c.FetchState(ctx, "earth-analog", 2451545.0); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
