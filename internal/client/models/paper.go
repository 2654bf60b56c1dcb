// Package models defines the client-side data models of the paper catalog.
package models

import "strings"

// PaperSummary is one row of the catalog list. Identity is ID; every other
// field is display data.
type PaperSummary struct {
	ID              int64  `json:"id"`
	Subject         string `json:"subject"`
	PreviewImageURL string `json:"previewImageUrl"`
	FileURL         string `json:"fileUrl"`
}

// PaperDetail is fetched lazily for a single opened paper and is never cached.
type PaperDetail struct {
	PaperSummary
	Description string `json:"description"`
	College     string `json:"college"`
	Course      string `json:"course"`
	Semester    int    `json:"semester"`
	OwnerEmail  string `json:"userEmail"`
}

// IsOwnedBy reports whether email uploaded the paper; only owners are offered
// edit and delete.
func (d *PaperDetail) IsOwnedBy(email string) bool {
	return email != "" && strings.EqualFold(strings.TrimSpace(d.OwnerEmail), strings.TrimSpace(email))
}

// PaperDraft is the metadata part of an upload or edit submission.
type PaperDraft struct {
	College     string `json:"college"`
	Course      string `json:"course"`
	Semester    int    `json:"semester"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Page is one normalized response of a list or search request.
type Page struct {
	Items      []PaperSummary
	IsLastPage bool
}
