package guardrail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/estatewise/sentinel/pkg/infra/httpx"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

const scorePath = "/v1/score"

type scoreRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

// RemoteClassifier delegates scoring to an external classification service
// speaking a small JSON contract: {"risk_level": "...", "category": "..."}.
// Calls are circuit-broken; any failure is returned to the pipeline, which
// owns the Medium-risk degradation.
type RemoteClassifier struct {
	baseURL string
	token   string
	timeout time.Duration
	client  *fasthttp.Client
	breaker httpx.CircuitBreaker
	parsers fastjson.ParserPool
}

type RemoteClassifierOptions struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	MaxFailures uint32
}

func NewRemoteClassifier(opts RemoteClassifierOptions) *RemoteClassifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}
	return &RemoteClassifier{
		baseURL: opts.BaseURL,
		token:   opts.Token,
		timeout: opts.Timeout,
		client: &fasthttp.Client{
			ReadTimeout:         opts.Timeout,
			WriteTimeout:        opts.Timeout,
			MaxConnsPerHost:     512,
			MaxIdleConnDuration: 60 * time.Second,
		},
		breaker: httpx.NewCircuitBreaker("remote_classifier", 30*time.Second, opts.MaxFailures),
	}
}

func (c *RemoteClassifier) Classify(ctx context.Context, text string, direction security.Direction) (security.Assessment, error) {
	assessment := security.Assessment{
		Level:     security.Safe,
		Category:  "none",
		Direction: direction,
	}
	if text == "" {
		return assessment, nil
	}
	if err := ctx.Err(); err != nil {
		return assessment, err
	}

	body, err := json.Marshal(scoreRequest{Text: text, Direction: string(direction)})
	if err != nil {
		return assessment, fmt.Errorf("failed to encode score request: %w", err)
	}

	err = c.breaker.Execute(func() error {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(c.baseURL + scorePath)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.SetBody(body)

		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return fmt.Errorf("classifier request failed: %w", err)
		}
		if resp.StatusCode() != fasthttp.StatusOK {
			return fmt.Errorf("classifier returned status %d", resp.StatusCode())
		}

		parsed, perr := c.parse(resp.Body(), direction)
		if perr != nil {
			return perr
		}
		assessment = parsed
		return nil
	})
	if err != nil {
		return security.Assessment{Level: security.Safe, Category: "none", Direction: direction}, err
	}
	return assessment, nil
}

func (c *RemoteClassifier) parse(body []byte, direction security.Direction) (security.Assessment, error) {
	parser := c.parsers.Get()
	defer c.parsers.Put(parser)

	v, err := parser.ParseBytes(body)
	if err != nil {
		return security.Assessment{}, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	levelStr := string(v.GetStringBytes("risk_level"))
	level, ok := security.ParseRiskLevel(levelStr)
	if !ok {
		return security.Assessment{}, fmt.Errorf("classifier returned unknown risk level %q", levelStr)
	}

	category := string(v.GetStringBytes("category"))
	if category == "" {
		category = "remote"
	}

	return security.Assessment{
		Level:     level,
		Category:  category,
		Direction: direction,
	}, nil
}
