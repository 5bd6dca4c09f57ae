package forward

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"crashreporter/src/model"
)

const (
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 4 * time.Second
	defaultTimeout         = 10 * time.Second
)

// Forwarder pushes stored reports to a downstream telemetry webhook.
// Delivery is best effort: the caller persists first and treats a forward
// failure as a warning, never as a reason to reject ingest.
type Forwarder struct {
	http *resty.Client
}

// NewForwarder builds a forwarder for the given webhook URL.
func NewForwarder(webhookURL string) *Forwarder {
	httpClient := resty.New().
		SetBaseURL(webhookURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &Forwarder{http: httpClient}
}

// Forward posts the report as JSON to the webhook.
func (f *Forwarder) Forward(ctx context.Context, report *model.Report) error {
	resp, err := f.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(report).
		Post("")
	if err != nil {
		return fmt.Errorf("forwarding report %s: %w", report.ID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("forwarding report %s: webhook returned %s", report.ID, resp.Status())
	}

	logger.WithFields(map[string]interface{}{
		"report_id": report.ID,
		"status":    resp.StatusCode(),
	}).Debug("report forwarded")
	return nil
}

// isRetryableResp retries transport errors, throttling and 5xx responses.
func isRetryableResp(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
