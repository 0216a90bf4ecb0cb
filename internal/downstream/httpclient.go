package downstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/logger"
	appctx "github.com/baechuer/real-time-ressys/services/event-console/internal/pkg/context"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/tracing"
)

const HeaderXRequestID = "X-Request-Id"

type ClientConfig struct {
	// ReadTimeout is used for GET requests
	ReadTimeout time.Duration
	// WriteTimeout is used for POST, PUT, PATCH, DELETE requests
	WriteTimeout time.Duration
	// Token is sent as a bearer token when set
	Token string
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Client wraps http.Client with request-id propagation, per-method
// timeouts, tracing and request logging.
type Client struct {
	baseClient *http.Client
	config     ClientConfig
}

func NewClient(config ClientConfig) *Client {
	return &Client{
		baseClient: &http.Client{
			// per-request timeouts only
			Timeout:   0,
			Transport: &tracing.Transport{TracerName: "event-console"},
		},
		config: config,
	}
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	ctx, reqID := appctx.EnsureRequestID(ctx)
	req.Header.Set(HeaderXRequestID, reqID)
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	timeout := c.config.ReadTimeout
	if isWriteMethod(req.Method) {
		timeout = c.config.WriteTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		// body is read by the caller, cancel once it is closed
		req = req.WithContext(ctx)
		resp, err := c.do(ctx, req)
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	return c.do(ctx, req.WithContext(ctx))
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	log := logger.Ctx(ctx).With().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Logger()

	start := time.Now()
	resp, err := c.baseClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Warn().Err(err).Dur("duration", duration).Msg("eventapi_request_failed")
		return nil, mapError(err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("eventapi_request_completed")
	return resp, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	// connection refused, DNS errors, etc.
	return ErrUnavailable
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (c *Client) DoWithBody(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}
