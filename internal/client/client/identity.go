package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/logging"
)

// IdentityClient queries the identity provider's account endpoint.
type IdentityClient struct {
	transport
	endpoint string
}

func NewIdentityClient(endpoint string, tokens TokenSource, timeout time.Duration, log logging.Logger) *IdentityClient {
	return &IdentityClient{
		transport: transport{
			http:   &http.Client{Timeout: timeout},
			tokens: tokens,
			log:    log.With("component", "identity"),
		},
		endpoint: endpoint,
	}
}

// EmailVerified reports the account's emailVerification flag.
func (c *IdentityClient) EmailVerified(ctx context.Context) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return false, err
	}

	code, body, err := c.do(req)
	if err != nil {
		return false, err
	}
	if !isSuccess(code) {
		return false, statusError(req, code, body)
	}

	var acc struct {
		EmailVerification bool `json:"emailVerification"`
	}
	if err := json.Unmarshal(body, &acc); err != nil {
		return false, fmt.Errorf("%w: %w: %v", ErrNetwork, ErrMalformedResponse, err)
	}
	return acc.EmailVerification, nil
}
