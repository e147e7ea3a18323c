// Package assetstore uploads feature images to the remote asset store over
// HTTP, streaming the file body without buffering it in memory.
package assetstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/catalogworks/catalog/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// Config points the client at the asset store's ingest endpoint.
type Config struct {
	IngestURL string
	APIKey    string
	Timeout   time.Duration
}

// Client implements ports.AssetStore against an HTTP ingest endpoint.
type Client struct {
	ingestURL string
	apiKey    string
	http      *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		ingestURL: cfg.IngestURL,
		apiKey:    cfg.APIKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// Upload streams the file to the ingest endpoint as multipart form data and
// returns the stored asset's URL and identifier. The multipart body is piped
// so the file is never held in memory whole.
func (c *Client) Upload(ctx context.Context, file ports.UploadFile) (*ports.UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()

		if err := mw.WriteField("key", uuid.NewString()); err != nil {
			pw.CloseWithError(err)
			return
		}

		part, err := mw.CreatePart(partHeader(file))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ingestURL, pr)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("asset store returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result ports.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

func partHeader(file ports.UploadFile) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Filename))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}
