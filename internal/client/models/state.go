package models

import "slices"

// Phase is the Sync Controller's current activity.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseLoadingInitial Phase = "loading_initial"
	PhaseLoadingMore    Phase = "loading_more"
	PhaseRefreshing     Phase = "refreshing"
	PhaseSearchPending  Phase = "search_pending"
	// PhaseError marks that the last operation failed. It rests like
	// PhaseIdle: the next intent proceeds normally.
	PhaseError Phase = "error"
)

// CatalogState is the list observed by the UI.
type CatalogState struct {
	Items        []PaperSummary
	Page         int
	HasMore      bool
	Query        string
	IsLoading    bool
	IsRefreshing bool

	Phase Phase
	// Err is the failure of the last operation, nil after a success.
	Err error
	// Detail is the paper open in the detail view, if any.
	Detail *PaperDetail
	// FromCache is true while Items still come from the persisted snapshot.
	FromCache bool
}

// Clone returns a deep copy safe to hand to observers.
func (s CatalogState) Clone() CatalogState {
	c := s
	c.Items = slices.Clone(s.Items)
	if s.Detail != nil {
		d := *s.Detail
		c.Detail = &d
	}
	return c
}

// IDs returns the item ids in display order.
func (s CatalogState) IDs() []int64 {
	ids := make([]int64, len(s.Items))
	for i, it := range s.Items {
		ids[i] = it.ID
	}
	return ids
}

// IndexOf returns the position of id in Items or -1.
func (s CatalogState) IndexOf(id int64) int {
	return slices.IndexFunc(s.Items, func(p PaperSummary) bool { return p.ID == id })
}
