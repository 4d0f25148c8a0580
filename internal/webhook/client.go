// Package webhook posts invoice and receipt payloads to the external
// document-generation workflow. The workflow renders the PDF and mails
// it; this side only delivers the field values.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when the webhook URL for the requested
// document kind is absent from the configuration.
var ErrNotConfigured = errors.New("webhook url not configured")

type Client struct {
	invoiceURL string
	receiptURL string
	httpc      *http.Client
	log        *zap.Logger
}

func New(invoiceURL, receiptURL string, log *zap.Logger) *Client {
	return &Client{
		invoiceURL: invoiceURL,
		receiptURL: receiptURL,
		httpc:      &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// TriggerInvoice sends the invoice field values to the workflow.
func (c *Client) TriggerInvoice(ctx context.Context, payload any) error {
	return c.trigger(ctx, "invoice", c.invoiceURL, payload)
}

// TriggerReceipt sends the patronage receipt field values to the
// workflow.
func (c *Client) TriggerReceipt(ctx context.Context, payload any) error {
	return c.trigger(ctx, "receipt", c.receiptURL, payload)
}

func (c *Client) trigger(ctx context.Context, kind, url string, payload any) error {
	if url == "" {
		return fmt.Errorf("%s: %w", kind, ErrNotConfigured)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", kind, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("trigger %s webhook: %w", kind, err)
	}
	defer resp.Body.Close()
	// The workflow's response body is not interpreted, only its status.
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("trigger %s webhook: unexpected status %d", kind, resp.StatusCode)
	}
	c.log.Info("webhook triggered", zap.String("kind", kind))
	return nil
}
