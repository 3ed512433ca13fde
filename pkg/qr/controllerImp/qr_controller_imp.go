package controllerImp

import (
	"errors"
	"mime"
	"net/http"

	"github.com/golang/glog"
	"github.com/labstack/echo/v4"

	"herbal/pkg/plant/repository"
	"herbal/pkg/plant/service"
	"herbal/pkg/qr"
)

type QRCtrl struct {
	plants service.PlantService
	gen    *qr.Generator
}

func New(plants service.PlantService, gen *qr.Generator) *QRCtrl {
	return &QRCtrl{plants: plants, gen: gen}
}

// Code returns the QR link details of a plant.
func (h *QRCtrl) Code(c echo.Context) error {
	p, err := h.plants.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return plantErr(c, err)
	}
	return c.JSON(http.StatusOK, h.gen.For(p))
}

// Image proxies the rendered QR image as a download.
func (h *QRCtrl) Image(c echo.Context) error {
	p, err := h.plants.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return plantErr(c, err)
	}
	code := h.gen.For(p)
	b, ct, err := h.gen.Download(c.Request().Context(), code)
	if err != nil {
		glog.Warningf("[qr] plant=%s: %v", p.ID, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": code.Filename}))
	return c.Blob(http.StatusOK, ct, b)
}

func plantErr(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
