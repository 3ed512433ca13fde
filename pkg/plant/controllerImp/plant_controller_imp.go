package controllerImp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/labstack/echo/v4"

	"herbal/entities"
	"herbal/pkg/plant/controller"
	"herbal/pkg/plant/repository"
	"herbal/pkg/plant/service"
)

const maxImageBytes = 10 << 20

// ImageUploader hosts an uploaded image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type PlantCtrl struct {
	s   service.PlantService
	img ImageUploader
}

func New(s service.PlantService, img ImageUploader) controller.PlantController {
	return &PlantCtrl{s: s, img: img}
}

func (h *PlantCtrl) List(c echo.Context) error {
	out, err := h.s.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PlantCtrl) Get(c echo.Context) error {
	p, err := h.s.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Create accepts either JSON carrying image_url, or a multipart form whose
// "image" file is uploaded first.
func (h *PlantCtrl) Create(c echo.Context) error {
	var in service.PlantInput
	if isMultipart(c) {
		form, herr := h.readForm(c)
		if herr != nil {
			return c.JSON(herr.Code, echo.Map{"error": herr.Message})
		}
		in = service.PlantInput{
			Name:        form.get("name"),
			Description: form.get("description"),
			Benefit:     form.get("benefit"),
			Compounds:   form.compounds,
			ImageURL:    form.get("image_url"),
		}
		// nothing is uploaded for a form that would be rejected
		if err := firstErr(
			service.Required("name", in.Name),
			service.Required("description", in.Description),
		); err != nil {
			return writeErr(c, err)
		}
		if form.image == nil {
			if err := service.Required("image_url", in.ImageURL); err != nil {
				return writeErr(c, err)
			}
		} else {
			if herr := h.upload(c, form); herr != nil {
				return c.JSON(herr.Code, echo.Map{"error": herr.Message})
			}
			in.ImageURL = form.imageURL
		}
	} else if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}

	p, err := h.s.Create(c.Request().Context(), in)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlantCtrl) Update(c echo.Context) error {
	var patch service.PlantPatch
	if isMultipart(c) {
		form, herr := h.readForm(c)
		if herr != nil {
			return c.JSON(herr.Code, echo.Map{"error": herr.Message})
		}
		patch = service.PlantPatch{
			Name:        form.ptr("name"),
			Description: form.ptr("description"),
			Benefit:     form.ptr("benefit"),
			ImageURL:    form.ptr("image_url"),
		}
		if form.hasCompounds {
			patch.Compounds = &form.compounds
		}
		if err := firstErr(
			form.required("name"),
			form.required("description"),
		); err != nil {
			return writeErr(c, err)
		}
		if form.image == nil {
			if err := form.required("image_url"); err != nil {
				return writeErr(c, err)
			}
		} else {
			if _, err := h.s.Get(c.Request().Context(), c.Param("id")); err != nil {
				return writeErr(c, err)
			}
			if herr := h.upload(c, form); herr != nil {
				return c.JSON(herr.Code, echo.Map{"error": herr.Message})
			}
			patch.ImageURL = &form.imageURL
		}
	} else if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}

	p, err := h.s.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlantCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- helpers ---

type plantForm struct {
	values       map[string][]string
	compounds    []entities.Compound
	hasCompounds bool
	image        *multipart.FileHeader
	imageURL     string
}

func (f *plantForm) get(k string) string {
	if v := f.values[k]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *plantForm) ptr(k string) *string {
	if v, ok := f.values[k]; ok && len(v) > 0 {
		return &v[0]
	}
	return nil
}

// required checks k only when the form sent it.
func (f *plantForm) required(k string) error {
	if v := f.ptr(k); v != nil {
		return service.Required(k, *v)
	}
	return nil
}

// readForm parses the multipart body. The "image" file is kept for upload.
func (h *PlantCtrl) readForm(c echo.Context) (*plantForm, *echo.HTTPError) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "bad multipart form")
	}
	f := &plantForm{values: mf.Value}
	if raw := f.get("compounds"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &f.compounds); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "compounds must be a json array")
		}
		f.hasCompounds = true
	}
	if files := mf.File["image"]; len(files) > 0 {
		if files[0].Size > maxImageBytes {
			return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
		}
		f.image = files[0]
	}
	return f, nil
}

// upload hosts the form's image and records its URL.
func (h *PlantCtrl) upload(c echo.Context, f *plantForm) *echo.HTTPError {
	src, err := f.image.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable image")
	}
	defer src.Close()
	url, err := h.img.Upload(c.Request().Context(), f.image.Filename, src)
	if err != nil {
		glog.Warningf("[plant] image upload: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	f.imageURL = url
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func writeErr(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		glog.Errorf("[plant] %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}
