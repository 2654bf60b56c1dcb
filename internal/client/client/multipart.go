package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
)

// Multipart field names understood by the backend.
const (
	fieldData    = "data"
	fieldFile    = "file"
	fieldPreview = "preview"
)

// CreatePaper submits a new paper. document is required, preview is optional.
// The returned detail is nil when the server answers without a body.
func (c *HTTPClient) CreatePaper(ctx context.Context, draft models.PaperDraft, document, preview *Attachment) (*models.PaperDetail, error) {
	if document == nil {
		return nil, fmt.Errorf("create paper: document is required")
	}
	return c.submit(ctx, http.MethodPost, c.endpoint(papersPath, nil), draft, document, preview)
}

// UpdatePaper replaces the metadata of a paper and, when given, its files.
func (c *HTTPClient) UpdatePaper(ctx context.Context, id int64, draft models.PaperDraft, document, preview *Attachment) (*models.PaperDetail, error) {
	return c.submit(ctx, http.MethodPut, c.endpoint(paperPath(id), nil), draft, document, preview)
}

func (c *HTTPClient) submit(ctx context.Context, method, rawURL string, draft models.PaperDraft, document, preview *Attachment) (*models.PaperDetail, error) {
	body, contentType, err := encodeSubmission(draft, document, preview)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	code, resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(code) {
		return nil, statusError(req, code, resp)
	}

	if len(bytes.TrimSpace(resp)) == 0 {
		return nil, nil
	}
	var d models.PaperDetail
	if err := json.Unmarshal(resp, &d); err != nil {
		c.log.Warn(ctx, "ignoring unreadable submission response", "path", req.URL.Path, "error", err)
		return nil, nil
	}
	return &d, nil
}

func encodeSubmission(draft models.PaperDraft, document, preview *Attachment) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	meta, err := json.Marshal(draft)
	if err != nil {
		return nil, "", fmt.Errorf("encode metadata: %w", err)
	}
	if err := w.WriteField(fieldData, string(meta)); err != nil {
		return nil, "", err
	}

	if err := writeAttachment(w, fieldFile, document); err != nil {
		return nil, "", err
	}
	if err := writeAttachment(w, fieldPreview, preview); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeAttachment(w *multipart.Writer, field string, a *Attachment) error {
	if a == nil {
		return nil
	}

	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(a.Filename)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, a.Content); err != nil {
		return fmt.Errorf("write %s: %w", field, err)
	}
	return nil
}
