package controllerImp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"herbal/pkg/catalog"
	"herbal/pkg/live"
	"herbal/pkg/plant/controller"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type LiveCtrl struct{ feed *live.Feed }

func NewLive(feed *live.Feed) controller.LiveController { return &LiveCtrl{feed: feed} }

// searchMsg is sent by the client whenever the search box changes.
type searchMsg struct {
	Query *string `json:"query"`
}

// Live upgrades to a websocket and pushes a catalog.Frame after every snapshot
// and every query change. The view lives exactly as long as the socket.
func (h *LiveCtrl) Live(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		glog.Warningf("[live] upgrade: %v", err)
		return nil
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v := catalog.Open(ctx, h.feed, c.QueryParam("q"))
	defer v.Close()

	go func() {
		defer cancel()
		ws.SetReadLimit(maxMessage)
		ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error { return ws.SetReadDeadline(time.Now().Add(pongWait)) })
		for {
			_, b, err := ws.ReadMessage()
			if err != nil {
				return
			}
			var msg searchMsg
			if err := json.Unmarshal(b, &msg); err != nil {
				glog.V(1).Infof("[live] ignoring message: %v", err)
				continue
			}
			if msg.Query != nil {
				v.Search(*msg.Query)
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case f, ok := <-v.Frames():
			if !ok {
				ws.SetWriteDeadline(time.Now().Add(writeWait))
				ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(f); err != nil {
				return nil
			}
		case <-ping.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}
