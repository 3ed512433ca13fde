package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"herbal/config"
	"herbal/database"
	"herbal/router"

	// Plants
	"herbal/pkg/live"
	plantCtrlImp "herbal/pkg/plant/controllerImp"
	plantRepo "herbal/pkg/plant/repository"
	plantRepoImp "herbal/pkg/plant/repositoryImp"
	plantSvcImp "herbal/pkg/plant/serviceImp"

	// Auth
	authCtrlImp "herbal/pkg/auth/controllerImp"
	authRepoImp "herbal/pkg/auth/repositoryImp"
	authSvcImp "herbal/pkg/auth/serviceImp"

	// QR, sheets, pages, health
	healthCtrlImp "herbal/pkg/health/controllerImp"
	"herbal/pkg/qr"
	qrCtrlImp "herbal/pkg/qr/controllerImp"
	sheetCtrlImp "herbal/pkg/sheet/controllerImp"
	"herbal/pkg/upload"
	"herbal/pkg/web"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) Config
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		glog.Warningf("JWT_SECRET not set; using a random secret, sessions end on restart")
	}

	// 2) DB (sqlite) + automigrate; admins always live here
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		glog.Fatalf("open db: %v", err)
	}

	// 3) Plants store: Postgres when configured
	var repo plantRepo.PlantRepository = plantRepoImp.New(db)
	var pg *plantRepoImp.PostgresRepo
	if cfg.DatabaseURL != "" {
		pg, err = plantRepoImp.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			glog.Fatalf("postgres: %v", err)
		}
		defer pg.Close()
		repo = pg
	}
	feed := live.NewFeed(repo)
	if pg != nil {
		go func() {
			if err := pg.ListenChanges(ctx, feed.Notify); err != nil {
				glog.Errorf("postgres listener stopped: %v", err)
			}
		}()
	}

	plantSvc := plantSvcImp.New(repo, feed)
	uploader := upload.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryPreset, cfg.HTTPTimeout)
	pCtrl := plantCtrlImp.New(plantSvc, uploader)
	lCtrl := plantCtrlImp.NewLive(feed)

	// 4) Auth + bootstrap admin
	authSvc := authSvcImp.New(authRepoImp.New(db), cfg.JWTSecret, cfg.SessionTTL)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			glog.Fatalf("bootstrap admin: %v", err)
		}
	}
	aCtrl := authCtrlImp.NewAuthController(authSvc)

	// 5) QR, sheets, pages, health
	qCtrl := qrCtrlImp.New(plantSvc, qr.NewGenerator(cfg.QRBaseURL, cfg.QRAPIURL, cfg.HTTPTimeout))
	sCtrl := sheetCtrlImp.New(plantSvc)
	pages := web.New(plantSvc)
	var pinger healthCtrlImp.Pinger
	if pg != nil {
		pinger = pg
	}
	hCtrl := healthCtrlImp.NewHealthCtrl(db, pinger, feed)

	// 6) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	r := router.New(e, pCtrl, lCtrl, qCtrl, sCtrl, aCtrl, pages, hCtrl, authSvc)

	// 7) Start
	go func() {
		glog.Infof("listening on :%s", cfg.Port)
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdown); err != nil {
		glog.Errorf("shutdown: %v", err)
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		glog.Fatalf("random secret: %v", err)
	}
	return hex.EncodeToString(b)
}
