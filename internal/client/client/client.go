package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
)

// Client is the remote paper collection.
type Client interface {
	FetchPage(ctx context.Context, page, pageSize int) (models.Page, error)
	Search(ctx context.Context, text string, page, pageSize int) (models.Page, error)
	FetchDetail(ctx context.Context, id int64) (*models.PaperDetail, error)
	DeleteByID(ctx context.Context, id int64) error
	CreatePaper(ctx context.Context, draft models.PaperDraft, document, preview *Attachment) (*models.PaperDetail, error)
	UpdatePaper(ctx context.Context, id int64, draft models.PaperDraft, document, preview *Attachment) (*models.PaperDetail, error)
}

// TokenSource supplies the ID token sent with each request. *session.Session
// satisfies it.
type TokenSource interface {
	IDToken() string
}

// Attachment is one file part of a multipart submission.
type Attachment struct {
	Filename    string
	ContentType string
	Content     io.Reader
}
