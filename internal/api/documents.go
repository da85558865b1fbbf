package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// Document sources
const (
	SourcePersonal = "personal"
	SourceGeneral  = "general"
)

// Document processing statuses
const (
	StatusPendingMeta = "pending_meta"
	StatusUploaded    = "uploaded"
	StatusProcessed   = "processed"
	StatusIndexed     = "indexed"
)

// Document is a library document
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	File      string    `json:"file"`
	Tag       *int      `json:"tag"`
	Owner     string    `json:"owner"`
	Source    string    `json:"source"`
	Language  string    `json:"language"`
	Status    string    `json:"status"`
	DateAdded time.Time `json:"date_added"`
	Path      string    `json:"path"`
}

// UploadDocumentRequest describes a multipart upload to POST /documents/
type UploadDocumentRequest struct {
	File     io.Reader
	FileName string
	Title    string
	Tag      *int
	Source   string
	Language string
}

// UpdateDocumentRequest is the body of PATCH /documents/{id}/.
// Nil fields are not sent; ClearTag sends "tag": null.
type UpdateDocumentRequest struct {
	Title    *string
	Language *string
	Source   *string
	Tag      *int
	ClearTag bool
}

// MarshalJSON implements json.Marshaler
func (r UpdateDocumentRequest) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{}
	if r.Title != nil {
		body["title"] = *r.Title
	}
	if r.Language != nil {
		body["language"] = *r.Language
	}
	if r.Source != nil {
		body["source"] = *r.Source
	}
	switch {
	case r.ClearTag:
		body["tag"] = nil
	case r.Tag != nil:
		body["tag"] = *r.Tag
	}
	return json.Marshal(body)
}

// ListDocuments lists every document visible to the caller
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.call(ctx, http.MethodGet, "/documents/", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListPendingDocuments lists documents awaiting approval
func (c *Client) ListPendingDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.call(ctx, http.MethodGet, "/documents/awaiting-approval/", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocument sends a file as multipart/form-data
func (c *Client) UploadDocument(ctx context.Context, req UploadDocumentRequest) (*Document, error) {
	if req.File == nil {
		return nil, berrors.NewInputRequiredError("file")
	}

	p, err := multipartPayload(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/documents/", p, true)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := parseResponse(resp, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// multipartPayload encodes the upload; the content type, boundary included,
// comes from the multipart writer.
func multipartPayload(req UploadDocumentRequest) (*payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeAPIRequest, "failed to create multipart file part", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeFileReadFailed, "failed to read upload", err)
	}

	fields := [][2]string{{"title", req.Title}}
	if req.Tag != nil {
		fields = append(fields, [2]string{"tag", strconv.Itoa(*req.Tag)})
	}
	if req.Source != "" {
		fields = append(fields, [2]string{"source", req.Source})
	}
	if req.Language != "" {
		fields = append(fields, [2]string{"language", req.Language})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, berrors.Wrap(berrors.ErrCodeAPIRequest, "failed to write multipart field", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeAPIRequest, "failed to finish multipart body", err)
	}

	return &payload{reader: &buf, contentType: w.FormDataContentType()}, nil
}

// UpdateDocument patches a document
func (c *Client) UpdateDocument(ctx context.Context, id string, req UpdateDocumentRequest) (*Document, error) {
	var doc Document
	if err := c.call(ctx, http.MethodPatch, documentPath(id), req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument deletes a document. Rejecting a pending document is a delete.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, documentPath(id), nil, nil)
}

// ApproveDocument approves a pending document
func (c *Client) ApproveDocument(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := c.call(ctx, http.MethodPost, documentPath(id)+"approve/", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func documentPath(id string) string {
	return fmt.Sprintf("/documents/%s/", url.PathEscape(id))
}
