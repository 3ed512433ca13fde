// Package web renders the public catalog pages that printed QR labels link to.
package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/golang/glog"
	"github.com/labstack/echo/v4"

	"herbal/entities"
	"herbal/pkg/plant/repository"
	"herbal/pkg/plant/service"
)

//go:embed templates/*.gohtml
var files embed.FS

var pages = map[string]*template.Template{
	"catalog":  parse("catalog"),
	"plant":    parse("plant"),
	"notfound": parse("notfound"),
}

func parse(name string) *template.Template {
	return template.Must(template.ParseFS(files, "templates/layout.gohtml", "templates/"+name+".gohtml"))
}

type Pages struct{ s service.PlantService }

func New(s service.PlantService) *Pages { return &Pages{s: s} }

type catalogData struct {
	Title  string
	Query  string
	Plants []entities.Plant
}

type plantData struct {
	Title string
	Plant *entities.Plant
}

func (h *Pages) Catalog(c echo.Context) error {
	q := c.QueryParam("q")
	plants, err := h.s.List(c.Request().Context(), q)
	if err != nil {
		glog.Errorf("[web] catalog: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return render(c, http.StatusOK, "catalog", catalogData{Title: "Katalog", Query: q, Plants: plants})
}

func (h *Pages) Plant(c echo.Context) error {
	p, err := h.s.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return render(c, http.StatusNotFound, "notfound", plantData{Title: "Tidak ditemukan"})
	}
	if err != nil {
		glog.Errorf("[web] plant %s: %v", c.Param("id"), err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return render(c, http.StatusOK, "plant", plantData{Title: p.Name, Plant: p})
}

func render(c echo.Context, status int, page string, data any) error {
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, page+".gohtml", data); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}
