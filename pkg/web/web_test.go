package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/assert/v2"
	"github.com/labstack/echo/v4"

	"herbal/database"
	"herbal/entities"
	"herbal/pkg/live"
	"herbal/pkg/plant/repositoryImp"
	"herbal/pkg/plant/service"
	"herbal/pkg/plant/serviceImp"
)

func setup(t *testing.T) (*echo.Echo, service.PlantService) {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatal(err)
	}
	repo := repositoryImp.New(db)
	svc := serviceImp.New(repo, live.NewFeed(repo))
	h := New(svc)
	e := echo.New()
	e.GET("/", h.Catalog)
	e.GET("/plant/:id", h.Plant)
	return e, svc
}

func page(t *testing.T, e *echo.Echo, path string) (int, *goquery.Document) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return rec.Code, doc
}

func TestCatalogListsAndFilters(t *testing.T) {
	e, svc := setup(t)
	ctx := context.Background()
	for _, n := range []string{"Jahe Merah", "Kunyit", "Jahe Emprit"} {
		_, err := svc.Create(ctx, service.PlantInput{Name: n, Description: "d", ImageURL: "https://img.test/x.jpg"})
		assert.Equal(t, err, nil)
		time.Sleep(2 * time.Millisecond)
	}

	code, doc := page(t, e, "/")
	assert.Equal(t, code, http.StatusOK)
	names := doc.Find("li.plant .name").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, names, []string{"Jahe Emprit", "Kunyit", "Jahe Merah"})

	_, doc = page(t, e, "/?q=jahe")
	assert.Equal(t, doc.Find("li.plant").Length(), 2)
	v, _ := doc.Find(`input[name="q"]`).Attr("value")
	assert.Equal(t, v, "jahe")

	_, doc = page(t, e, "/?q=xyz")
	assert.Equal(t, doc.Find("li.plant").Length(), 0)
	assert.Equal(t, doc.Find("p.empty").Text(), "Tanaman tidak ditemukan")
}

func TestPlantDetail(t *testing.T) {
	e, svc := setup(t)
	p, err := svc.Create(context.Background(), service.PlantInput{
		Name: "Sirih", Description: "Daun hijau", Benefit: "Antiseptik", ImageURL: "https://img.test/s.jpg",
		Compounds: []entities.Compound{{Name: "Kavikol", Amount: "1%"}},
	})
	assert.Equal(t, err, nil)

	code, doc := page(t, e, "/plant/"+p.ID)
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, doc.Find("h1").Text(), "Sirih")
	assert.Equal(t, doc.Find(".benefit p").Text(), "Antiseptik")
	assert.Equal(t, doc.Find(".compounds td").First().Text(), "Kavikol")
	src, _ := doc.Find("article img").Attr("src")
	assert.Equal(t, src, "https://img.test/s.jpg")

	code, doc = page(t, e, "/plant/missing")
	assert.Equal(t, code, http.StatusNotFound)
	assert.Equal(t, doc.Find("p.missing").Length(), 1)
}
