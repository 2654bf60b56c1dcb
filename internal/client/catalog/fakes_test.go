package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
)

var errOffline = errors.New("offline")

// fakeRemote serves a newest-first collection and records every call.
type fakeRemote struct {
	mu        sync.Mutex
	papers    []models.PaperSummary
	details   map[int64]models.PaperDetail
	calls     []string
	fetchErr  error
	searchErr error
	deleteErr error
	// hook runs before a call is answered, outside the lock.
	hook func(call string)
}

func papers(ids ...int64) []models.PaperSummary {
	out := make([]models.PaperSummary, len(ids))
	for i, id := range ids {
		out[i] = models.PaperSummary{ID: id, Subject: fmt.Sprintf("Subject %d", id)}
	}
	return out
}

// descending returns ids n..1.
func descending(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(n - i)
	}
	return ids
}

func idsOf(items []models.PaperSummary) []int64 {
	return models.CatalogState{Items: items}.IDs()
}

func (f *fakeRemote) enter(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}
}

func (f *fakeRemote) setHook(h func(call string)) {
	f.mu.Lock()
	f.hook = h
	f.mu.Unlock()
}

func (f *fakeRemote) setPapers(items []models.PaperSummary) {
	f.mu.Lock()
	f.papers = items
	f.mu.Unlock()
}

func (f *fakeRemote) setFetchErr(err error) {
	f.mu.Lock()
	f.fetchErr = err
	f.mu.Unlock()
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func slicePage(items []models.PaperSummary, page, size int) models.Page {
	start := min((page-1)*size, len(items))
	end := min(start+size, len(items))
	out := slices.Clone(items[start:end])
	return models.Page{Items: out, IsLastPage: len(out) < size}
}

func (f *fakeRemote) FetchPage(ctx context.Context, page, size int) (models.Page, error) {
	f.enter(fmt.Sprintf("page:%d", page))
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.Page{}, err
	}
	if f.fetchErr != nil {
		return models.Page{}, f.fetchErr
	}
	return slicePage(f.papers, page, size), nil
}

func (f *fakeRemote) Search(ctx context.Context, text string, page, size int) (models.Page, error) {
	f.enter(fmt.Sprintf("search:%s:%d", text, page))
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.Page{}, err
	}
	if f.searchErr != nil {
		return models.Page{}, f.searchErr
	}
	var hits []models.PaperSummary
	for _, p := range f.papers {
		if strings.Contains(strings.ToLower(p.Subject), strings.ToLower(text)) {
			hits = append(hits, p)
		}
	}
	return slicePage(hits, page, size), nil
}

func (f *fakeRemote) FetchDetail(ctx context.Context, id int64) (*models.PaperDetail, error) {
	f.enter(fmt.Sprintf("detail:%d", id))
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &d, nil
}

func (f *fakeRemote) DeleteByID(ctx context.Context, id int64) error {
	f.enter(fmt.Sprintf("delete:%d", id))
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	i := slices.IndexFunc(f.papers, func(p models.PaperSummary) bool { return p.ID == id })
	if i < 0 {
		return errors.New("404")
	}
	f.papers = slices.Delete(f.papers, i, i+1)
	return nil
}

type fakeCache struct {
	mu    sync.Mutex
	items []models.PaperSummary
	ok    bool
	saves [][]models.PaperSummary
}

func (f *fakeCache) Load(context.Context) ([]models.PaperSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items), f.ok
}

func (f *fakeCache) Save(_ context.Context, items []models.PaperSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = slices.Clone(items)
	f.ok = true
	f.saves = append(f.saves, slices.Clone(items))
}

func (f *fakeCache) Saves() [][]models.PaperSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.saves)
}

type staticGate bool

func (g staticGate) Verified() bool { return bool(g) }
