package controllerImp

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"herbal/pkg/auth/controller"
	"herbal/pkg/auth/service"
	"herbal/pkg/middleware"
)

type authCtrl struct{ s service.AuthService }

func NewAuthController(s service.AuthService) controller.AuthController { return &authCtrl{s} }

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *authCtrl) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	sess, err := h.s.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredential):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, sess)
}

func (h *authCtrl) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	email, _ := c.Get("admin").(string)
	return c.JSON(http.StatusOK, map[string]string{"email": email})
}
