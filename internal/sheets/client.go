// Package sheets pushes captured leads to the configured spreadsheet
// webhook. Sync is best-effort: failures are logged and never surface to
// the submitting client.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"realty_site_backend/platform/config"
	"realty_site_backend/platform/logger"
)

// LeadRow is the flat payload the spreadsheet webhook expects. Optional
// fields are sent as empty strings, not nulls.
type LeadRow struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone"`
	PreferredContactTime string    `json:"preferred_contact_time"`
	Interest             string    `json:"interest"`
	HeardFrom            string    `json:"heard_from"`
	Message              string    `json:"message"`
	Status               string    `json:"status"`
	SubmittedAt          time.Time `json:"submitted_at"`
}

// Client posts lead rows to the spreadsheet webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a sheets client. When no webhook URL is configured the
// client is disabled and SyncLead becomes a no-op.
func NewClient(cfg config.SheetsConfig, log *logger.Logger) *Client {
	return &Client{
		webhookURL: cfg.GetSheetsWebhookURL(),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

// SyncLead posts a single lead row to the webhook.
func (c *Client) SyncLead(ctx context.Context, row LeadRow) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(row)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheets webhook returned status %d", resp.StatusCode)
	}

	return nil
}
