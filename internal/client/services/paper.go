package services

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/paperkeeper/internal/client/client"
	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
)

const (
	minSemester = 1
	maxSemester = 10
)

var (
	documentTypes = map[string]string{
		".pdf":  "application/pdf",
		".doc":  "application/msword",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	previewExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true}
)

// PaperService submits new and edited papers.
//
// Contract:
//   - Upload: validate a complete draft, send it with its document and an
//     optional preview image.
//   - Update: validate an edit, send it with optional replacement files.
//
// After a successful submission the catalog is asked to refresh so the change
// shows up; a failed refresh is logged, not returned.
type PaperService interface {
	Upload(ctx context.Context, draft models.PaperDraft, documentPath, previewPath string) (*models.PaperDetail, error)
	Update(ctx context.Context, id int64, draft models.PaperDraft, documentPath, previewPath string) (*models.PaperDetail, error)
}

// Refresher reloads the catalog's first page.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type paperService struct {
	client    client.Client
	refresher Refresher
	log       logging.Logger
}

func NewPaperService(c client.Client, r Refresher, log logging.Logger) PaperService {
	return &paperService{client: c, refresher: r, log: log.With("component", "papers")}
}

func (s *paperService) Upload(ctx context.Context, draft models.PaperDraft, documentPath, previewPath string) (*models.PaperDetail, error) {
	draft = trimDraft(draft)
	if err := validateUpload(draft, documentPath, previewPath); err != nil {
		return nil, err
	}

	doc, closeDoc, err := openAttachment(documentPath, documentType)
	if err != nil {
		return nil, err
	}
	defer closeDoc()

	preview, closePreview, err := openAttachment(previewPath, previewType)
	if err != nil {
		return nil, err
	}
	defer closePreview()

	d, err := s.client.CreatePaper(ctx, draft, doc, preview)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	s.log.Info(ctx, "paper uploaded", "subject", draft.Subject)
	s.refresh(ctx)
	return d, nil
}

func (s *paperService) Update(ctx context.Context, id int64, draft models.PaperDraft, documentPath, previewPath string) (*models.PaperDetail, error) {
	draft = trimDraft(draft)
	if err := validateUpdate(id, draft, documentPath, previewPath); err != nil {
		return nil, err
	}

	doc, closeDoc, err := openAttachment(documentPath, documentType)
	if err != nil {
		return nil, err
	}
	defer closeDoc()

	preview, closePreview, err := openAttachment(previewPath, previewType)
	if err != nil {
		return nil, err
	}
	defer closePreview()

	d, err := s.client.UpdatePaper(ctx, id, draft, doc, preview)
	if err != nil {
		return nil, fmt.Errorf("update paper %d: %w", id, err)
	}
	s.log.Info(ctx, "paper updated", "id", id)
	s.refresh(ctx)
	return d, nil
}

func (s *paperService) refresh(ctx context.Context) {
	if s.refresher == nil {
		return
	}
	if err := s.refresher.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "refresh after submission failed", "error", err)
	}
}

func trimDraft(d models.PaperDraft) models.PaperDraft {
	d.College = strings.TrimSpace(d.College)
	d.Course = strings.TrimSpace(d.Course)
	d.Subject = strings.TrimSpace(d.Subject)
	d.Description = strings.TrimSpace(d.Description)
	return d
}

func validateUpload(d models.PaperDraft, documentPath, previewPath string) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"college", d.College},
		{"course", d.Course},
		{"subject", d.Subject},
		{"description", d.Description},
		{"document", documentPath},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDraft, strings.Join(missing, ", "))
	}
	if d.Semester < minSemester || d.Semester > maxSemester {
		return fmt.Errorf("%w: semester must be between %d and %d", ErrInvalidDraft, minSemester, maxSemester)
	}
	return validateFiles(documentPath, previewPath)
}

func validateUpdate(id int64, d models.PaperDraft, documentPath, previewPath string) error {
	if id <= 0 {
		return fmt.Errorf("%w: id %d", ErrInvalidDraft, id)
	}
	if d.Subject == "" {
		return fmt.Errorf("%w: missing subject", ErrInvalidDraft)
	}
	if d.Semester != 0 && (d.Semester < minSemester || d.Semester > maxSemester) {
		return fmt.Errorf("%w: semester must be between %d and %d", ErrInvalidDraft, minSemester, maxSemester)
	}
	return validateFiles(documentPath, previewPath)
}

func validateFiles(documentPath, previewPath string) error {
	if documentPath != "" {
		if _, ok := documentTypes[strings.ToLower(filepath.Ext(documentPath))]; !ok {
			return fmt.Errorf("%w: document must be .pdf, .doc or .docx", ErrInvalidDraft)
		}
	}
	if previewPath != "" && !previewExts[strings.ToLower(filepath.Ext(previewPath))] {
		return fmt.Errorf("%w: preview must be an image", ErrInvalidDraft)
	}
	return nil
}

func documentType(path string) string {
	return documentTypes[strings.ToLower(filepath.Ext(path))]
}

func previewType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// openAttachment opens path for a multipart part. An empty path yields a nil
// attachment.
func openAttachment(path string, contentType func(string) string) (*client.Attachment, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	a := &client.Attachment{
		Filename:    filepath.Base(path),
		ContentType: contentType(path),
		Content:     f,
	}
	return a, func() { _ = f.Close() }, nil
}
