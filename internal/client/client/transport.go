package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/common"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response body is kept in StatusError.
const maxErrorBody = 512

// transport is the request plumbing shared by HTTPClient and IdentityClient.
type transport struct {
	http   *http.Client
	tokens TokenSource
	log    logging.Logger
}

func (t *transport) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", common.UserAgent)
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if t.tokens != nil {
		if tok := t.tokens.IDToken(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+tok)
		}
	}
	return req, nil
}

// do sends req and returns the status code and body. Transport failures match
// ErrNetwork; the status is not interpreted here.
func (t *transport) do(req *http.Request) (int, []byte, error) {
	start := time.Now()
	reqID := req.Header.Get(common.RequestIDHeaderName)

	resp, err := t.http.Do(req)
	if err != nil {
		t.log.Error(req.Context(), "request failed",
			"method", req.Method, "path", req.URL.Path, "request_id", reqID, "error", err)
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s %s: %w", ErrNetwork, req.Method, req.URL.Path, err)
	}

	t.log.Debug(req.Context(), "request done",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))
	return resp.StatusCode, body, nil
}

func statusError(req *http.Request, code int, body []byte) *StatusError {
	b := strings.TrimSpace(string(body))
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return &StatusError{Method: req.Method, Path: req.URL.Path, Code: code, Body: b}
}

func isSuccess(code int) bool { return code >= 200 && code < 300 }
