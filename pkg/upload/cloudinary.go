package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/golang/glog"
)

// ErrNotConfigured is returned when no upload endpoint was configured.
var ErrNotConfigured = errors.New("upload: cloudinary is not configured")

// Cloudinary performs unsigned uploads with an upload preset.
type Cloudinary struct {
	endpoint string
	preset   string
	httpc    *http.Client
}

func NewCloudinary(endpoint, preset string, timeout time.Duration) *Cloudinary {
	return &Cloudinary{endpoint: endpoint, preset: preset, httpc: &http.Client{Timeout: timeout}}
}

type uploadResp struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image and returns its hosted https URL. An empty image
// returns "" without contacting the service.
func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	if c.endpoint == "" {
		return "", ErrNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	n, err := io.Copy(fw, r)
	if err != nil {
		return "", fmt.Errorf("upload: read image: %w", err)
	}
	if n == 0 {
		return "", nil
	}
	if err := mw.WriteField("upload_preset", c.preset); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	var out uploadResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload: decode response (status %d): %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		glog.Warningf("[upload] cloudinary error: %s", out.Error.Message)
		return "", fmt.Errorf("upload: %s", out.Error.Message)
	}
	if out.SecureURL == "" {
		return "", errors.New("upload: no image url in response")
	}
	glog.V(1).Infof("[upload] %s -> %s (%d bytes)", filename, out.SecureURL, n)
	return out.SecureURL, nil
}
