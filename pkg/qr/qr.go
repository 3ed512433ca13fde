package qr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"herbal/entities"
)

const (
	imageSize     = "500x500"
	maxImageBytes = 5 << 20
)

// Code describes the QR label of one plant. The image itself is rendered by
// the external QR API.
type Code struct {
	PlantID   string `json:"plant_id"`
	Name      string `json:"name"`
	TargetURL string `json:"target_url"`
	ImageURL  string `json:"image_url"`
	Filename  string `json:"filename"`
}

type Generator struct {
	baseURL string
	apiURL  string
	httpc   *http.Client
}

// NewGenerator builds codes pointing at baseURL+id, rendered by the QR API at
// apiURL.
func NewGenerator(baseURL, apiURL string, timeout time.Duration) *Generator {
	return &Generator{baseURL: baseURL, apiURL: apiURL, httpc: &http.Client{Timeout: timeout}}
}

func (g *Generator) For(p *entities.Plant) Code {
	target := g.baseURL + url.PathEscape(p.ID)
	sep := "?"
	if strings.Contains(g.apiURL, "?") {
		sep = "&"
	}
	return Code{
		PlantID:   p.ID,
		Name:      p.Name,
		TargetURL: target,
		ImageURL:  g.apiURL + sep + "size=" + imageSize + "&data=" + url.QueryEscape(target),
		Filename:  Filename(p.Name),
	}
}

var spaceRX = regexp.MustCompile(`\s+`)

// Filename is the download name of a plant's QR image, e.g. QR-Jahe-Merah.png.
func Filename(name string) string {
	return "QR-" + spaceRX.ReplaceAllString(name, "-") + ".png"
}

// Download fetches the rendered QR image.
func (g *Generator) Download(ctx context.Context, c Code) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("qr: fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("qr: fetch image: status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("qr: read image: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/png"
	}
	return b, ct, nil
}
