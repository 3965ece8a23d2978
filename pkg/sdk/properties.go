package estaterec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload replaces every listing with the CSV read from r and returns the number stored.
func (c *Client) Upload(ctx context.Context, r io.Reader, filename string) (int, error) {
	if filename == "" {
		return 0, errEmptyFilename
	}
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return 0, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("build form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(req, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Recommend returns the listings matching p.
func (c *Client) Recommend(ctx context.Context, p Profile) ([]Property, error) {
	body := struct {
		Profile
		IncludeLiked bool `json:"include_liked"`
	}{Profile: p, IncludeLiked: !p.ExcludeLiked}

	var out []Property
	if err := c.doJSON(ctx, http.MethodPost, "/api/recommendations", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProperties returns every listing.
func (c *Client) ListProperties(ctx context.Context) ([]Property, error) {
	var out []Property
	if err := c.doJSON(ctx, http.MethodGet, "/api/properties", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
