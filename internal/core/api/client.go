// Package api is the HTTP transport for the three NyayaAI backend services:
// auth, upload, and query. It owns request shaping, bearer injection, and
// error decoding; session and document semantics live above it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the backend services over HTTP. One instance is shared by the
// session manager and the document client.
type Client struct {
	authURL    string
	uploadURL  string
	queryURL   string
	httpClient *http.Client
}

// New constructs a client from the three service base URLs.
func New(authURL, uploadURL, queryURL string) *Client {
	return &Client{
		authURL:    strings.TrimRight(authURL, "/"),
		uploadURL:  strings.TrimRight(uploadURL, "/"),
		queryURL:   strings.TrimRight(queryURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient replaces the underlying HTTP client. Tests use it to shorten
// timeouts.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// detailBody is the FastAPI-style error envelope every service uses.
type detailBody struct {
	Detail string `json:"detail"`
}

// doJSON sends an optional JSON payload and decodes a JSON response into out.
// A non-2xx response is returned as *Error with the backend detail when the
// body carried one.
func (c *Client) doJSON(ctx context.Context, method, rawurl, token, op string, def Kind, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &Error{Kind: def, Op: op, Err: err}
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return &Error{Kind: def, Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, token, op, def, out)
}

// doForm sends a form-encoded payload, as the auth service's /login expects.
func (c *Client) doForm(ctx context.Context, rawurl, op string, def Kind, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{Kind: def, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, "", op, def, out)
}

// doMultipart streams a single file as multipart field "file".
func (c *Client) doMultipart(ctx context.Context, rawurl, token, op string, def Kind, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return &Error{Kind: def, Op: op, Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return &Error{Kind: def, Op: op, Err: err}
	}
	if err := w.Close(); err != nil {
		return &Error{Kind: def, Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, &buf)
	if err != nil {
		return &Error{Kind: def, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, token, op, def, out)
}

func (c *Client) do(req *http.Request, token, op string, def Kind, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransient, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb detailBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		detail := strings.TrimSpace(eb.Detail)
		if detail == "" {
			detail = resp.Status
		}
		return &Error{
			Kind:   classify(resp.StatusCode, def),
			Status: resp.StatusCode,
			Detail: detail,
			Op:     op,
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindTransient, Op: op, Err: err}
	}
	return nil
}
