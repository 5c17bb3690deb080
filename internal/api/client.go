package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/internal/logger"
	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrTimeout means the request did not complete within the client's bound.
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork means the request failed in transport before a response arrived.
	ErrNetwork = errors.New("network failure")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API returned non-OK status: %s", e.Status)
}

// NotFound reports whether the provider rejected the query as unknown.
func (e *HTTPError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client issues one-shot GET requests. It never retries.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Do performs a single GET and returns the body of a 2xx response.
func (c *Client) Do(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	logger.Debug("Making request to %s", redact(req))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.WithStack(classify(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Debug("API returned status code %d. Body: %s", resp.StatusCode, string(body))
		return nil, pkgerrors.WithStack(&HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        redact(req),
			Body:       string(body),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.WithStack(classify(err))
	}
	return body, nil
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// redact strips the query string so API keys never reach the logs.
func redact(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}
