package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/pivot-location/pkg/wsHub"
	"github.com/gorilla/websocket"
)

// LocationFeed pushes verification results to the user's open websocket.
type LocationFeed struct {
	connections *ws.ConnectionHub
	upgrader    websocket.Upgrader
	log         logger.Logger
}

func NewLocationFeed(connHub *ws.ConnectionHub, log logger.Logger) *LocationFeed {
	return &LocationFeed{
		connections: connHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// NotifyLocationVerified sends event to the user. A user without a live connection is not an error.
func (h *LocationFeed) NotifyLocationVerified(ctx context.Context, event models.LocationVerifiedEvent) error {
	const op = "LocationFeed.NotifyLocationVerified"

	if err := h.connections.SendTo(event.UserID, event); err != nil {
		if errors.Is(err, ws.ErrConnIsNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// HandleWS godoc
// @Summary      Live verification feed
// @Description  Upgrades to a websocket that receives {"type":"location_verified", ...} after each successful verification of the caller.
// @Tags         Location
// @Security     BearerAuth
// @Success      101
// @Failure      401  {object}  docs.ErrorResponse
// @Router       /ws/location [get]
func (h *LocationFeed) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "location_ws_connect")

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		unauthorizedResponse(w)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already replied
		h.log.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	conn := ws.NewConn(ctx, user.ID, raw)
	if err := h.connections.Add(conn); err != nil {
		h.log.Error(ctx, "failed to register websocket", err)
		_ = conn.Close()
		return
	}
	defer h.connections.Remove(conn)

	h.log.Info(ctx, "websocket connected")

	err = conn.Listen(func(msg map[string]any) error {
		if typ, _ := msg["type"].(string); typ == "ping" {
			return conn.Send(map[string]string{"type": "pong"})
		}
		return nil
	})
	h.log.Debug(ctx, "websocket closed", "reason", errString(err))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
