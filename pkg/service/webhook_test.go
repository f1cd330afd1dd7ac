package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookClient(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewWebhookClient(WebhookClientConfig{BaseURL: srv.URL})

	if err := client.PostMessage(context.Background(), "tenant-1", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/internal/chat" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotPayload["tenant_id"] != "tenant-1" || gotPayload["message"] != "hello" {
		t.Errorf("unexpected payload: %v", gotPayload)
	}

	if err := client.RequestReview(context.Background(), "tenant-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/internal/review-request" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotPayload["tenant_id"] != "tenant-2" {
		t.Errorf("unexpected payload: %v", gotPayload)
	}
}

func TestWebhookClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewWebhookClient(WebhookClientConfig{BaseURL: srv.URL})

	if err := client.PostMessage(context.Background(), "tenant-1", "hello"); err == nil {
		t.Fatal("expected an error on a non-2xx response")
	}
}
