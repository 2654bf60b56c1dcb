package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
	"github.com/dmitrijs2005/paperkeeper/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) IDToken() string { return string(s) }

// fakeAPI records the last request seen and serves canned responses.
type fakeAPI struct {
	mu       sync.Mutex
	lastReq  *http.Request
	lastBody []byte

	listBody   string
	searchBody string
	status     int
	detail     map[int64]models.PaperDetail
	deleted    []int64
}

func (f *fakeAPI) record(r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.lastReq = r
	f.lastBody = b
	f.mu.Unlock()
}

func (f *fakeAPI) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/papers", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}
		_, _ = io.WriteString(w, f.listBody)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/papers/search", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = io.WriteString(w, f.searchBody)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/papers/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		d, ok := f.detail[id]
		if !ok {
			http.Error(w, "no such paper", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(d)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/papers/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if _, ok := f.detail[id]; !ok {
			http.Error(w, "no such paper", http.StatusNotFound)
			return
		}
		f.deleted = append(f.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)
	return r
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...Option) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL, staticToken("tok-123"), 5*time.Second, opts...)
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_InvalidURL(t *testing.T) {
	_, err := NewHTTPClient("not a url", nil, time.Second)
	require.Error(t, err)
}

func TestFetchPage_EnvelopeShape(t *testing.T) {
	api := &fakeAPI{listBody: `{"papers":[{"id":3,"subject":"Math"},{"id":2,"subject":"Physics"}]}`}
	c := newTestClient(t, api)

	page, err := c.FetchPage(context.Background(), 2, 10)
	require.NoError(t, err)

	want := models.Page{
		Items:      []models.PaperSummary{{ID: 3, Subject: "Math"}, {ID: 2, Subject: "Physics"}},
		IsLastPage: true,
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, "2", api.lastReq.URL.Query().Get("page"))
	require.Equal(t, "10", api.lastReq.URL.Query().Get("limit"))
	require.Equal(t, "Bearer tok-123", api.lastReq.Header.Get(common.AuthorizationHeaderName))
	require.NotEmpty(t, api.lastReq.Header.Get(common.RequestIDHeaderName))
}

func TestFetchPage_BareArrayShape(t *testing.T) {
	api := &fakeAPI{listBody: `[{"id":1,"subject":"A"},{"id":2,"subject":"B"}]`}
	c := newTestClient(t, api)

	page, err := c.FetchPage(context.Background(), 1, 2)
	require.NoError(t, err)
	require.False(t, page.IsLastPage)
	// Sorted newest first as a fallback.
	require.Equal(t, int64(2), page.Items[0].ID)
	require.Equal(t, int64(1), page.Items[1].ID)
}

func TestFetchPage_TrustServerOrder(t *testing.T) {
	api := &fakeAPI{listBody: `[{"id":1},{"id":2}]`}
	c := newTestClient(t, api, WithTrustServerOrder(true))

	page, err := c.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Items[0].ID)
}

func TestFetchPage_EmptyEnvelope(t *testing.T) {
	api := &fakeAPI{listBody: `{"papers":[]}`}
	c := newTestClient(t, api)

	page, err := c.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
	require.True(t, page.IsLastPage)
}

func TestFetchPage_MalformedBody(t *testing.T) {
	for _, body := range []string{``, `{"items":[]}`, `"nope"`, `[{"id":"x"}]`} {
		t.Run(body, func(t *testing.T) {
			c := newTestClient(t, &fakeAPI{listBody: body})
			_, err := c.FetchPage(context.Background(), 1, 10)
			require.ErrorIs(t, err, ErrNetwork)
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestFetchPage_StatusErrors(t *testing.T) {
	cases := []struct {
		code         int
		unauthorized bool
	}{
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
		{http.StatusUnauthorized, true},
		{http.StatusForbidden, true},
	}
	for _, tc := range cases {
		t.Run(strconv.Itoa(tc.code), func(t *testing.T) {
			c := newTestClient(t, &fakeAPI{status: tc.code})
			_, err := c.FetchPage(context.Background(), 1, 10)
			require.ErrorIs(t, err, ErrNetwork)
			require.Equal(t, tc.unauthorized, errors.Is(err, ErrUnauthorized))
			require.Equal(t, tc.code, StatusCode(err))
		})
	}
}

func TestFetchPage_InvalidArgs(t *testing.T) {
	c := newTestClient(t, &fakeAPI{})
	_, err := c.FetchPage(context.Background(), 0, 10)
	require.Error(t, err)
	_, err = c.FetchPage(context.Background(), 1, 0)
	require.Error(t, err)
}

func TestFetchPage_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, nil, time.Second)
	require.NoError(t, err)

	_, err = c.FetchPage(context.Background(), 1, 10)
	require.ErrorIs(t, err, ErrNetwork)
	require.Zero(t, StatusCode(err))
}

func TestFetchPage_ContextCancelled(t *testing.T) {
	c := newTestClient(t, &fakeAPI{listBody: `[]`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchPage(ctx, 1, 10)
	require.ErrorIs(t, err, ErrNetwork)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSearch(t *testing.T) {
	api := &fakeAPI{searchBody: `{"papers":[{"id":1,"subject":"Math I"},{"id":7,"subject":"Math II"}]}`}
	c := newTestClient(t, api)

	page, err := c.Search(context.Background(), "math", 1, 10)
	require.NoError(t, err)
	require.Equal(t, "math", api.lastReq.URL.Query().Get("subject"))
	require.Equal(t, "1", api.lastReq.URL.Query().Get("page"))
	// Search keeps the server's order.
	require.Equal(t, []int64{1, 7}, []int64{page.Items[0].ID, page.Items[1].ID})
	require.True(t, page.IsLastPage)
}

func TestSearch_EmptyText(t *testing.T) {
	c := newTestClient(t, &fakeAPI{})
	_, err := c.Search(context.Background(), "", 1, 10)
	require.Error(t, err)
}

func TestFetchDetail(t *testing.T) {
	d := models.PaperDetail{
		PaperSummary: models.PaperSummary{ID: 5, Subject: "Chemistry"},
		Description:  "Midterm",
		College:      "MIT",
		Course:       "B.Sc",
		Semester:     3,
		OwnerEmail:   "owner@example.com",
	}
	c := newTestClient(t, &fakeAPI{detail: map[int64]models.PaperDetail{5: d}})

	got, err := c.FetchDetail(context.Background(), 5)
	require.NoError(t, err)
	if diff := cmp.Diff(d, *got); diff != "" {
		t.Fatalf("detail mismatch (-want +got):\n%s", diff)
	}

	_, err = c.FetchDetail(context.Background(), 6)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	api := &fakeAPI{detail: map[int64]models.PaperDetail{5: {}}}
	c := newTestClient(t, api)

	require.NoError(t, c.DeleteByID(context.Background(), 5))
	require.Equal(t, []int64{5}, api.deleted)
	require.Equal(t, http.MethodDelete, api.lastReq.Method)

	// A missing id is a hard failure.
	err := c.DeleteByID(context.Background(), 9)
	require.ErrorIs(t, err, ErrNetwork)
	require.Equal(t, http.StatusNotFound, StatusCode(err))
	require.Contains(t, err.Error(), "no such paper")
}

func TestDecodePapers_NullArray(t *testing.T) {
	items, err := decodePapers([]byte(`null`))
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.Nil(t, items)

	items, err = decodePapers([]byte(` {"papers": null} `))
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.Nil(t, items)
}

func TestStatusError_Message(t *testing.T) {
	e := &StatusError{Method: "GET", Path: "/api/papers", Code: 500, Body: strings.Repeat("x", 3)}
	require.Equal(t, fmt.Sprintf("GET /api/papers: 500 %s: xxx", http.StatusText(500)), e.Error())
}
