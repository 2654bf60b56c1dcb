package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
)

const papersPath = "/api/papers"

// HTTPClient talks to the paper collection over HTTP/JSON.
type HTTPClient struct {
	transport
	baseURL          *url.URL
	trustServerOrder bool
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTrustServerOrder skips the newest-first sort of list pages.
func WithTrustServerOrder(trust bool) Option {
	return func(c *HTTPClient) { c.trustServerOrder = trust }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &HTTPClient{
		transport: transport{
			http:   &http.Client{Timeout: timeout},
			tokens: tokens,
			log:    logging.Nop(),
		},
		baseURL: u,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("component", "remote")
	return c, nil
}

func (c *HTTPClient) endpoint(path string, q url.Values) string {
	u := c.baseURL.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	return q
}

// FetchPage returns one page of the unfiltered collection, newest first.
func (c *HTTPClient) FetchPage(ctx context.Context, page, pageSize int) (models.Page, error) {
	if page < 1 || pageSize < 1 {
		return models.Page{}, fmt.Errorf("invalid page %d/%d", page, pageSize)
	}

	items, err := c.list(ctx, c.endpoint(papersPath, pageQuery(page, pageSize)))
	if err != nil {
		return models.Page{}, err
	}

	if !c.trustServerOrder {
		sortNewestFirst(items)
	}
	return models.Page{Items: items, IsLastPage: len(items) < pageSize}, nil
}

// Search returns one page of papers whose subject matches text. The server
// decides the matching rule and the order; results are not re-filtered.
func (c *HTTPClient) Search(ctx context.Context, text string, page, pageSize int) (models.Page, error) {
	if text == "" {
		return models.Page{}, fmt.Errorf("empty search text")
	}
	if page < 1 || pageSize < 1 {
		return models.Page{}, fmt.Errorf("invalid page %d/%d", page, pageSize)
	}

	q := pageQuery(page, pageSize)
	q.Set("subject", text)

	items, err := c.list(ctx, c.endpoint(papersPath+"/search", q))
	if err != nil {
		return models.Page{}, err
	}
	return models.Page{Items: items, IsLastPage: len(items) < pageSize}, nil
}

func (c *HTTPClient) list(ctx context.Context, rawURL string) ([]models.PaperSummary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	code, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(code) {
		return nil, statusError(req, code, body)
	}

	items, err := decodePapers(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, req.URL.Path, err)
	}
	return items, nil
}

func (c *HTTPClient) FetchDetail(ctx context.Context, id int64) (*models.PaperDetail, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(paperPath(id), nil), nil)
	if err != nil {
		return nil, err
	}

	code, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if !isSuccess(code) {
		return nil, statusError(req, code, body)
	}

	var d models.PaperDetail
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("%w: %s: %w: %v", ErrNetwork, req.URL.Path, ErrMalformedResponse, err)
	}
	return &d, nil
}

// DeleteByID removes a paper. A missing id is a failure like any other non-2xx.
func (c *HTTPClient) DeleteByID(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.endpoint(paperPath(id), nil), nil)
	if err != nil {
		return err
	}

	code, body, err := c.do(req)
	if err != nil {
		return err
	}
	if !isSuccess(code) {
		return statusError(req, code, body)
	}
	return nil
}

func paperPath(id int64) string {
	return papersPath + "/" + strconv.FormatInt(id, 10)
}

// decodePapers accepts both {"papers": [...]} and a bare array.
func decodePapers(body []byte) ([]models.PaperSummary, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	switch trimmed[0] {
	case '[':
		var items []models.PaperSummary
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return nonNil(items), nil
	case '{':
		var env struct {
			Papers *[]models.PaperSummary `json:"papers"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if env.Papers == nil {
			return nil, fmt.Errorf("%w: no papers field", ErrMalformedResponse)
		}
		return nonNil(*env.Papers), nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q", ErrMalformedResponse, trimmed[0])
	}
}

func nonNil(items []models.PaperSummary) []models.PaperSummary {
	if items == nil {
		return []models.PaperSummary{}
	}
	return items
}

func sortNewestFirst(items []models.PaperSummary) {
	slices.SortStableFunc(items, func(a, b models.PaperSummary) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}
