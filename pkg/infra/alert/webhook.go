package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/estatewise/sentinel/pkg/guardrail"
	"github.com/valyala/fasthttp"
)

const webhookSinkName = "webhook"

// WebhookSink posts escalation events as JSON to an operator-supplied URL.
type WebhookSink struct {
	url    string
	client *fasthttp.Client
}

func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		url: url,
		client: &fasthttp.Client{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			MaxConnsPerHost: 64,
		},
	}
}

func (s *WebhookSink) Name() string {
	return webhookSinkName
}

func (s *WebhookSink) Send(ctx context.Context, evt *guardrail.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	timeout := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := s.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}
