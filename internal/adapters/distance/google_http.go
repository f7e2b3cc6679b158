package distance

import (
	"context"
	"errors"
	"fmt"
	"haul-quote-service/internal/ports"
	"io"
	"net"
	"net/http"
	"strings"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (g *GoogleDistanceProvider) newRequest(
	ctx context.Context,
	url string,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return req, nil
}

// do executes the request and reads the full body so the raw payload can be
// cached alongside the parsed result. No retries happen here; retry policy
// belongs to the caller.
func (g *GoogleDistanceProvider) do(req *http.Request) ([]byte, error) {
	resp, err := g.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(body)),
		}
	}
	if readErr != nil {
		return nil, fmt.Errorf("read response body: %w", readErr)
	}

	return body, nil
}

// classifyTransport maps HTTP and network failures onto provider error kinds.
func classifyTransport(err error) *ports.ProviderError {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusTooManyRequests:
			return &ports.ProviderError{Kind: ports.KindRateLimited, Message: "provider throttled the request", Err: err}
		case he.Code >= 500:
			return &ports.ProviderError{Kind: ports.KindTransient, Message: "provider server error", Err: err}
		default:
			return &ports.ProviderError{Kind: ports.KindInvalidRequest, Message: "provider rejected the request", Err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &ports.ProviderError{Kind: ports.KindTransient, Message: "network failure reaching provider", Err: err}
	}

	return &ports.ProviderError{Kind: ports.KindTransient, Message: "request failed", Err: err}
}

// classifyStatus maps the Distance Matrix top-level status field.
func classifyStatus(status, errorMessage string) *ports.ProviderError {
	msg := errorMessage
	if msg == "" {
		msg = "status " + status
	}

	switch status {
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "RESOURCE_EXHAUSTED":
		return &ports.ProviderError{Kind: ports.KindRateLimited, Message: msg}
	case "INVALID_REQUEST", "REQUEST_DENIED", "MAX_ELEMENTS_EXCEEDED", "MAX_DIMENSIONS_EXCEEDED":
		return &ports.ProviderError{Kind: ports.KindInvalidRequest, Message: msg}
	default:
		return &ports.ProviderError{Kind: ports.KindTransient, Message: msg}
	}
}
