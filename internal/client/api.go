// Package client talks to the transcoder's status and upload API on behalf
// of a playback client: cached status lookups, upload-then-poll tracking and
// codec capability detection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/httpx"
)

const maxErrorBody = 4 << 10

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// UploadSource describes a local file to upload. Size and MIME are checked
// against the upload constraints before any request is made.
type UploadSource struct {
	Filename    string
	Size        int64
	MIME        string
	Orientation domain.Orientation
	Body        io.Reader
}

type UploadResponse struct {
	VideoID  string          `json:"videoId"`
	InputURI string          `json:"inputUri"`
	Strategy domain.Strategy `json:"strategy,omitempty"`
}

// API is a thin client for the transcoder HTTP API.
type API struct {
	baseURL    string
	http       *http.Client
	uploadHTTP *http.Client
}

type APIOption func(*API)

func WithHTTPClient(c *http.Client) APIOption {
	return func(a *API) {
		a.http = c
		a.uploadHTTP = c
	}
}

func NewAPI(baseURL string, opts ...APIOption) *API {
	a := &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httpx.NewClient(0),
		uploadHTTP: httpx.NewClient(-1),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) BaseURL() string {
	return a.baseURL
}

func (a *API) Status(ctx context.Context, videoID string) (domain.StatusReport, error) {
	var report domain.StatusReport
	err := a.doJSON(ctx, http.MethodGet, "/api/videos/"+url.PathEscape(videoID)+"/status", nil, &report)
	if err != nil {
		return domain.StatusReport{}, err
	}
	if report.VideoID == "" {
		report.VideoID = videoID
	}
	return report, nil
}

// BatchStatus asks for several ids in one request. An over-cap request is
// reported as domain.ErrBatchTooLarge.
func (a *API) BatchStatus(ctx context.Context, ids []string) (map[string]domain.StatusReport, error) {
	results := make(map[string]domain.StatusReport, len(ids))
	err := a.doJSON(ctx, http.MethodPost, "/api/videos/status/batch", domain.BatchStatusRequest{VideoIDs: ids}, &results)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusRequestEntityTooLarge {
		return nil, fmt.Errorf("%w: %s", domain.ErrBatchTooLarge, apiErr.Message)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (a *API) Health(ctx context.Context) error {
	return a.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

// Upload streams src as multipart/form-data without buffering the file.
func (a *API) Upload(ctx context.Context, src UploadSource) (*UploadResponse, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, src))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/videos", pr)
	if err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := a.uploadHTTP.Do(req)
	if err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	var out UploadResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// writeUploadForm writes the metadata fields before the file part so the
// server can validate them before reading the body.
func writeUploadForm(mw *multipart.Writer, src UploadSource) error {
	if err := mw.WriteField("size", strconv.FormatInt(src.Size, 10)); err != nil {
		return err
	}
	if src.Orientation != domain.OrientationNone {
		if err := mw.WriteField("orientation", string(src.Orientation)); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, src.Filename))
	h.Set("Content-Type", src.MIME)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src.Body); err != nil {
		return err
	}
	return mw.Close()
}

func (a *API) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage prefers the "error" field of a JSON error body.
func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}
