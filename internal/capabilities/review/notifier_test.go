package review_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/internal/capabilities"
	"github.com/inboundflow/courier/internal/capabilities/review"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]string{"ref": "review-42"})
	}))
	defer server.Close()

	notifier := review.New(review.Config{
		WebhookURL: server.URL,
		Timeout:    time.Second,
	}, discardLogger())

	id := uuid.New()
	ref, err := notifier.Notify(context.Background(), capabilities.ReviewRequest{
		SessionID:   id,
		SenderEmail: "guest@example.com",
		Subject:     "Booking inquiry",
		Label:       "Accepted",
		Summary:     "short summary",
		Draft:       "the draft",
	})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if ref != "review-42" {
		t.Errorf("ref: got %s, want review-42", ref)
	}
	if payload["session_id"] != id.String() {
		t.Errorf("session_id: got %v", payload["session_id"])
	}
	if payload["draft"] != "the draft" {
		t.Errorf("draft: got %v", payload["draft"])
	}
}

func TestNotifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := review.New(review.Config{WebhookURL: server.URL, Timeout: time.Second}, discardLogger())

	_, err := notifier.Notify(context.Background(), capabilities.ReviewRequest{})
	if err == nil {
		t.Error("expected error on 500 response")
	}
}
