package qr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"herbal/entities"
)

func TestForBuildsLinks(t *testing.T) {
	g := NewGenerator("https://herbal-app-mobile.vercel.app/plant/", "https://api.qrserver.com/v1/create-qr-code/", time.Second)
	c := g.For(&entities.Plant{ID: "01HX2Y", Name: "Jahe Merah"})

	assert.Equal(t, c.TargetURL, "https://herbal-app-mobile.vercel.app/plant/01HX2Y")
	assert.Equal(t, c.ImageURL, "https://api.qrserver.com/v1/create-qr-code/?size=500x500&data=https%3A%2F%2Fherbal-app-mobile.vercel.app%2Fplant%2F01HX2Y")
	assert.Equal(t, c.Filename, "QR-Jahe-Merah.png")
	assert.Equal(t, c.PlantID, "01HX2Y")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, Filename("Kunyit"), "QR-Kunyit.png")
	assert.Equal(t, Filename("Daun   Sirih\tHijau"), "QR-Daun-Sirih-Hijau.png")
}

func TestDownload(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("data")
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG"))
	}))
	defer srv.Close()

	g := NewGenerator("http://herbal.test/plant/", srv.URL+"/v1/create-qr-code/", 5*time.Second)
	b, ct, err := g.Download(context.Background(), g.For(&entities.Plant{ID: "abc", Name: "Kunyit"}))
	assert.Equal(t, err, nil)
	assert.Equal(t, string(b), "\x89PNG")
	assert.Equal(t, ct, "image/png")
	assert.Equal(t, gotQuery, "http://herbal.test/plant/abc")
}

func TestDownloadUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGenerator("http://herbal.test/plant/", srv.URL, 5*time.Second)
	_, _, err := g.Download(context.Background(), g.For(&entities.Plant{ID: "abc"}))
	assert.Equal(t, err.Error(), "qr: fetch image: status 503")
}
