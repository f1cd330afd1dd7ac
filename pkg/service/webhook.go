// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// WebhookClientConfig configures the app webhook client.
type WebhookClientConfig struct {
	// BaseURL is the merchant-facing app's internal webhook endpoint.
	BaseURL string
	// Timeout for webhook calls. Defaults to 5s.
	Timeout time.Duration
}

// WebhookClient delivers engagement side effects to the merchant-facing app
// over its internal webhook API. It implements MessagePoster for chat
// delivery and the native review request used by the store review channel.
type WebhookClient struct {
	config     WebhookClientConfig
	httpClient *http.Client
}

// NewWebhookClient creates a webhook client.
func NewWebhookClient(config WebhookClientConfig) *WebhookClient {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	return &WebhookClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// PostMessage delivers a message into the tenant's support-chat widget.
func (c *WebhookClient) PostMessage(ctx context.Context, tenantID, message string) error {
	return c.post(ctx, "/internal/chat", map[string]string{
		"tenant_id": tenantID,
		"message":   message,
	})
}

// RequestReview asks the app to trigger the platform's native review dialog
// for the tenant's next active session.
func (c *WebhookClient) RequestReview(ctx context.Context, tenantID string) error {
	return c.post(ctx, "/internal/review-request", map[string]string{
		"tenant_id": tenantID,
	})
}

func (c *WebhookClient) post(ctx context.Context, path string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned status %d", path, resp.StatusCode)
	}

	logrus.Debugf("webhook %s delivered", path)
	return nil
}
