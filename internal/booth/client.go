package booth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// Snapshot is the authoritative session state as last reported by the
// backend. The controller never patches it field-by-field; every fetch or
// push update replaces the cached copy wholesale.
type Snapshot struct {
	SessionID         string      `json:"session_id"`
	PhotoCount        int         `json:"photo_count"`
	Layout            Layout      `json:"layout"`
	Orientation       Orientation `json:"orientation"`
	MaxCapturePhotos  int         `json:"max_capture_photos"`
	FinalPhotosNeeded int         `json:"final_photos_needed"`
	CaptureComplete   bool        `json:"capture_complete"`
	SelectionComplete bool        `json:"selection_complete"`
	SelectedPhotos    []int       `json:"selected_photos"`
	Photos            []string    `json:"photos"`
}

// Active reports whether the backend currently owns a session.
func (s Snapshot) Active() bool { return s.SessionID != "" }

// CreateResult is the response to a session-create request.
type CreateResult struct {
	SessionID         string      `json:"session_id"`
	Layout            Layout      `json:"layout"`
	Orientation       Orientation `json:"orientation"`
	MaxCapturePhotos  int         `json:"max_capture_photos"`
	FinalPhotosNeeded int         `json:"final_photos_needed"`
}

// CaptureResult is the response to a capture request.
type CaptureResult struct {
	Success           bool   `json:"success"`
	PhotoCount        int    `json:"photo_count"`
	CaptureComplete   bool   `json:"capture_complete"`
	MaxCapturePhotos  int    `json:"max_capture_photos"`
	FinalPhotosNeeded int    `json:"final_photos_needed"`
	Photo             string `json:"photo"`
}

// FinalizeResult carries the composed collage.
type FinalizeResult struct {
	Success     bool   `json:"success"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Collage     string `json:"collage"`
}

// GalleryEntry describes one saved collage on the backend.
type GalleryEntry struct {
	Filename    string `json:"filename"`
	Created     string `json:"created"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// APIError is a non-2xx backend response. Detail is the backend's own
// message when it sent one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("booth API error: HTTP %d", e.Status)
}

// Client talks to the photobooth backend over its JSON HTTP API.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a client for the backend at base, eg. http://localhost:8000.
func NewClient(base string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid booth server url %q: %w", base, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("booth server url %q must be http or https", base)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{base: parsed.String(), http: httpClient}, nil
}

// CreateSession starts a fresh session for the given layout and orientation.
func (c *Client) CreateSession(ctx context.Context, layout Layout, orientation Orientation) (CreateResult, error) {
	body := map[string]any{"layout": layout, "orientation": orientation}
	var result CreateResult
	if err := c.do(ctx, http.MethodPost, "/api/session/create", body, &result); err != nil {
		return CreateResult{}, err
	}
	return result, nil
}

// CapturePhoto asks the backend to capture one photo into the active session.
func (c *Client) CapturePhoto(ctx context.Context) (CaptureResult, error) {
	var result CaptureResult
	if err := c.do(ctx, http.MethodPost, "/api/session/capture", nil, &result); err != nil {
		return CaptureResult{}, err
	}
	return result, nil
}

// Status fetches the full authoritative snapshot. A backend with no active
// session answers with a zero-valued snapshot rather than an error.
func (c *Client) Status(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/session/status", nil, &snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

// SelectPhotos submits the chosen indices in their selection order.
func (c *Client) SelectPhotos(ctx context.Context, indices []int) error {
	body := map[string]any{"selected_indices": indices}
	return c.do(ctx, http.MethodPost, "/api/session/select-photos", body, nil)
}

// Finalize composes the collage from the selected photos and ends the session.
func (c *Client) Finalize(ctx context.Context) (FinalizeResult, error) {
	var result FinalizeResult
	if err := c.do(ctx, http.MethodPost, "/api/session/finalize", nil, &result); err != nil {
		return FinalizeResult{}, err
	}
	return result, nil
}

// Reset abandons any active session. Always safe to call.
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/session/reset", nil, nil)
}

// ListPhotos returns the backend gallery, newest first.
func (c *Client) ListPhotos(ctx context.Context) ([]GalleryEntry, error) {
	var result struct {
		Photos []GalleryEntry `json:"photos"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/photos", nil, &result); err != nil {
		return nil, err
	}
	return result.Photos, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode booth response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	} else if trimmed := strings.TrimSpace(string(raw)); trimmed != "" && len(trimmed) <= 200 {
		apiErr.Detail = trimmed
	}
	return apiErr
}
