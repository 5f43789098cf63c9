// Package turnstile verifies Cloudflare Turnstile tokens server-side to
// keep bot submissions out of the leads pipeline.
package turnstile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"realty_site_backend/platform/apperr"
	"realty_site_backend/platform/config"
	"realty_site_backend/platform/logger"
)

const siteverifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Client-facing failure messages. Error codes from Cloudflare stay in logs.
const (
	msgNotConfigured = "CAPTCHA verification not configured"
	msgFailed        = "Security verification failed. Please try again."
	msgUnreachable   = "Could not verify security check. Please try again."
)

// Verifier checks a challenge token. A nil return means the token passed.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Client calls the Cloudflare siteverify endpoint.
type Client struct {
	secret     string
	endpoint   string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a Turnstile client with a bounded request timeout so a
// slow verifier cannot stall lead submissions indefinitely.
func NewClient(cfg config.TurnstileConfig, log *logger.Logger) *Client {
	timeout := cfg.GetTurnstileTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		secret:     cfg.GetTurnstileSecretKey(),
		endpoint:   siteverifyURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type siteverifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
	RemoteIP string `json:"remoteip,omitempty"`
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify validates the token with Cloudflare. All failures map to a
// forbidden error carrying a client-safe message.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	if c.secret == "" {
		c.log.Error("turnstile secret key not configured")
		return apperr.Forbidden(msgNotConfigured)
	}

	body, err := json.Marshal(siteverifyRequest{
		Secret:   c.secret,
		Response: token,
		RemoteIP: remoteIP,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindForbidden, msgUnreachable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return apperr.Wrap(apperr.KindForbidden, msgUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("turnstile verification request failed", "error", err)
		return apperr.Wrap(apperr.KindForbidden, msgUnreachable, err)
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Error("turnstile verification response invalid", "error", err)
		return apperr.Wrap(apperr.KindForbidden, msgUnreachable, err)
	}

	if !result.Success {
		c.log.VerificationFailed(remoteIP, strings.Join(result.ErrorCodes, ","))
		return apperr.Forbidden(msgFailed)
	}

	return nil
}
