// Package notify delivers alert notifications to an external webhook (the
// farm's ops channel).
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/avicontrol/avicontrol/internal/config"
	"github.com/avicontrol/avicontrol/internal/domain/models"
)

// Client posts alerts to the configured webhook URL.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a webhook client using the provided configuration
// values.
func NewClient(cfg config.NotifyConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.WebhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{httpClient: restyClient}
}

// webhookPayload is the body posted to the webhook.
type webhookPayload struct {
	Source      string        `json:"source"`
	AlertID     string        `json:"alertId"`
	Type        string        `json:"type"`
	Priority    string        `json:"priority"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	BatchID     string        `json:"batchId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	Actions     []string      `json:"actions,omitempty"`
	Alert       *models.Alert `json:"alert"`
}

// apiError captures an error body returned by the webhook endpoint.
type apiError struct {
	Error string `json:"error"`
}

// PushAlert posts the alert to the webhook.
func (c *Client) PushAlert(ctx context.Context, alert models.Alert) error {
	payload := webhookPayload{
		Source:      "avicontrol",
		AlertID:     alert.ID,
		Type:        string(alert.Type),
		Priority:    string(alert.Priority),
		Title:       alert.Title,
		Description: alert.Description,
		BatchID:     alert.BatchID,
		CreatedAt:   alert.CreatedAt,
		Actions:     alert.Actions,
		Alert:       &alert,
	}

	respErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(respErr).
		Post("")
	if err != nil {
		return fmt.Errorf("push alert notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := respErr.Error
		if message == "" {
			message = resp.Status()
		}
		return fmt.Errorf("webhook error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
