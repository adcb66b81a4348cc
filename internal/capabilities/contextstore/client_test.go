package contextstore_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inboundflow/courier/internal/capabilities/contextstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestThreads(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/threads/search" {
			t.Errorf("path: got %s, want /threads/search", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]any{
			"threads": []string{"thread one", "thread two"},
		})
	}))
	defer server.Close()

	client := contextstore.New(contextstore.Config{
		BaseURL:    server.URL,
		Timeout:    time.Second,
		MaxThreads: 2,
	}, discardLogger())

	threads, err := client.Threads(context.Background(), "booking history")
	if err != nil {
		t.Fatalf("threads failed: %v", err)
	}
	if len(threads) != 2 {
		t.Fatalf("threads: got %d, want 2", len(threads))
	}
	if payload["query"] != "booking history" {
		t.Errorf("query: got %v", payload["query"])
	}
	if payload["limit"] != float64(2) {
		t.Errorf("limit: got %v, want 2", payload["limit"])
	}
}

func TestFindContextMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"matched": false})
	}))
	defer server.Close()

	client := contextstore.New(contextstore.Config{BaseURL: server.URL, Timeout: time.Second}, discardLogger())

	result, err := client.FindContext(context.Background(), "guest@example.com", "Accepted")
	if err != nil {
		t.Fatalf("a miss must not be an error: %v", err)
	}
	if result.Matched {
		t.Error("matched: got true, want false")
	}
}

func TestFindContextHit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"matched": true,
			"content": "client profile",
			"ref":     "doc-9",
		})
	}))
	defer server.Close()

	client := contextstore.New(contextstore.Config{BaseURL: server.URL, Timeout: time.Second}, discardLogger())

	result, err := client.FindContext(context.Background(), "guest@example.com", "Accepted")
	if err != nil {
		t.Fatalf("find context failed: %v", err)
	}
	if !result.Matched || result.Content != "client profile" || result.Ref != "doc-9" {
		t.Errorf("unexpected result: %+v", result)
	}
}
