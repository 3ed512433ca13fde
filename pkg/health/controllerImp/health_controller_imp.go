package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

// Pinger is an extra store to check, such as the Postgres pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Subscribers reports how many live views are open.
type Subscribers interface {
	Len() int
}

type HealthCtrl struct {
	db    *gorm.DB
	pg    Pinger
	feeds Subscribers
}

// NewHealthCtrl checks db, and pg when it is not nil.
func NewHealthCtrl(db *gorm.DB, pg Pinger, feeds Subscribers) *HealthCtrl {
	return &HealthCtrl{db: db, pg: pg, feeds: feeds}
}

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	checks := map[string]check{"database": h.sqlite(ctx)}
	if h.pg != nil {
		if err := h.pg.Ping(ctx); err != nil {
			checks["postgres"] = check{Err: "ping: " + err.Error()}
		} else {
			checks["postgres"] = check{OK: true}
		}
	}

	allOK := true
	for _, ch := range checks {
		allOK = allOK && ch.OK
	}
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	live := 0
	if h.feeds != nil {
		live = h.feeds.Len()
	}
	return c.JSON(status, map[string]any{
		"status":           map[string]any{"ok": allOK},
		"uptime_sec":       int(time.Since(appStart).Seconds()),
		"checks":           checks,
		"live_subscribers": live,
		"time":             time.Now().Format(time.RFC3339),
	})
}

func (h *HealthCtrl) sqlite(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}
