package controllerImp

import (
	"bytes"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/labstack/echo/v4"

	"herbal/pkg/plant/service"
	"herbal/pkg/sheet"
)

const maxSheetBytes = 20 << 20

type SheetCtrl struct{ s service.PlantService }

func New(s service.PlantService) *SheetCtrl { return &SheetCtrl{s: s} }

func (h *SheetCtrl) Export(c echo.Context) error {
	plants, err := h.s.List(c.Request().Context(), "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	var buf bytes.Buffer
	if err := sheet.Export(&buf, plants); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	name := "plants-" + time.Now().Format("20060102") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

type rowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// Import creates one plant per sheet row. Rows that fail validation are
// reported and do not stop the rest.
func (h *SheetCtrl) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if fh.Size > maxSheetBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file"})
	}
	defer src.Close()

	rows, err := sheet.Import(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	created := 0
	failed := []rowError{}
	for _, r := range rows {
		if _, err := h.s.Create(c.Request().Context(), r.Plant); err != nil {
			failed = append(failed, rowError{Line: r.Line, Error: err.Error()})
			continue
		}
		created++
	}
	glog.Infof("[sheet] import %s: created=%d failed=%d", fh.Filename, created, len(failed))
	return c.JSON(http.StatusOK, echo.Map{"created": created, "failed": failed})
}
