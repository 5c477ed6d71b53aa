package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"postguard/internal/config"
)

func testClient(maxRetries int) *Client {
	cfg := &config.Config{}
	cfg.Callback.Timeout = time.Second
	cfg.Callback.MaxRetries = maxRetries
	return NewClient(cfg)
}

func TestSendDeliversPayload(t *testing.T) {
	var received Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(1)
	err := client.Send(context.Background(), server.URL, &Payload{
		ProcessID: "proc-1",
		Status:    "SUCCESS",
		Operation: "analyze",
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if received.ProcessID != "proc-1" || received.Status != "SUCCESS" {
		t.Errorf("received %+v", received)
	}
}

func TestSendRetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(2)
	if err := client.Send(context.Background(), server.URL, &Payload{ProcessID: "proc-2"}); err != nil {
		t.Fatalf("Send should succeed on retry: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestSendGivesUpAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(1)
	if err := client.Send(context.Background(), server.URL, &Payload{ProcessID: "proc-3"}); err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
}

func TestSendEmptyURL(t *testing.T) {
	client := testClient(1)
	if err := client.Send(context.Background(), "", &Payload{}); err == nil {
		t.Fatal("empty URL must be rejected")
	}
}
