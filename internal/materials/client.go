// Package materials talks to the external study-material generation backend.
package materials

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"studysync/internal/models"
)

const (
	// GeneratePath is the backend route that turns a document into materials.
	GeneratePath = "/generate-materials"
	// FileField is the multipart part carrying the document.
	FileField = "file"
)

// Client posts documents to the generation backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. The HTTP client has
// no timeout; generation runs until the backend answers.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Endpoint returns the full generation URL.
func (c *Client) Endpoint() string {
	return c.baseURL + GeneratePath
}

// Generate uploads one document and parses the backend's answer. The HTTP
// status code is ignored: a body carrying "error" is reported through
// GenerateResponse.Error, and any body that is not JSON is a parse failure.
func (c *Client) Generate(ctx context.Context, filename string, content io.Reader) (*models.GenerateResponse, error) {
	body, contentType, err := encodeMultipart(filename, content)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response (status %d): %w", resp.StatusCode, err)
	}

	var out models.GenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse generation response (status %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}

func encodeMultipart(filename string, content io.Reader) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FileField, filepath.Base(filename)))
	h.Set("Content-Type", MimeType(filename))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("failed to copy %s into request: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// MimeType guesses a content type from the document extension.
func MimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
