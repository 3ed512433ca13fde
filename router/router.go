package router

import (
	"github.com/labstack/echo/v4"

	"herbal/pkg/middleware"
)

func New(
	e *echo.Echo,
	plantCtrl interface {
		List(echo.Context) error
		Get(echo.Context) error
		Create(echo.Context) error
		Update(echo.Context) error
		Delete(echo.Context) error
	},
	liveCtrl interface{ Live(echo.Context) error },
	qrCtrl interface {
		Code(echo.Context) error
		Image(echo.Context) error
	},
	sheetCtrl interface {
		Export(echo.Context) error
		Import(echo.Context) error
	},
	authCtrl interface {
		Login(echo.Context) error
		Logout(echo.Context) error
		WhoAmI(echo.Context) error
	},
	pages interface {
		Catalog(echo.Context) error
		Plant(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
	tokens middleware.TokenVerifier,
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)

	// pages behind printed QR labels
	e.GET("/", pages.Catalog)
	e.GET("/plant/:id", pages.Plant)

	api := e.Group("/api/v1")
	api.GET("/plants", plantCtrl.List)
	api.GET("/plants/live", liveCtrl.Live)
	api.GET("/plants/:id", plantCtrl.Get)

	api.POST("/admin/login", authCtrl.Login)
	api.POST("/admin/logout", authCtrl.Logout)

	admin := api.Group("/admin", middleware.RequireAdmin(tokens))
	admin.GET("/whoami", authCtrl.WhoAmI)
	admin.GET("/plants/live", liveCtrl.Live)
	admin.GET("/plants/export.xlsx", sheetCtrl.Export)
	admin.POST("/plants/import", sheetCtrl.Import)
	admin.POST("/plants", plantCtrl.Create)
	admin.PATCH("/plants/:id", plantCtrl.Update)
	admin.DELETE("/plants/:id", plantCtrl.Delete)
	admin.GET("/plants/:id/qr", qrCtrl.Code)
	admin.GET("/plants/:id/qr.png", qrCtrl.Image)
	return e
}
