package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/config"
	"github.com/quizgenie/quizgenie-backend/internal/middleware"
	"github.com/quizgenie/quizgenie-backend/internal/response"
	"github.com/quizgenie/quizgenie-backend/internal/service"
	ws "github.com/quizgenie/quizgenie-backend/internal/websocket"
)

const keepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams completed-attempt events to admin dashboards over
// WebSocket, fanned out from the Redis PubSub channel the submit path
// publishes to.
type MonitorHandler struct {
	rdb      *redis.Client
	upgrader gorillaws.Upgrader
	log      zerolog.Logger
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		rdb:      rdb,
		upgrader: buildUpgrader(allowedOrigins),
		log:      log.With().Str("component", "monitor_handler").Logger(),
	}
}

// AttemptStream godoc
// WS /ws/v1/admin/attempts/stream
// Pushes one attempt_completed message per submission, plus periodic pings.
func (h *MonitorHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	reqCtx := c.Request.Context()

	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.AttemptMonitorChannel())
	defer pubsub.Close()
	ch := pubsub.Channel()

	// Drain client frames so close frames and pings are processed; the
	// stream itself is one-directional.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	h.log.Info().Str("admin_id", claims.UserID.String()).Msg("Admin attached to attempt monitor")

	for {
		select {
		case <-reqCtx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				_ = ws.WriteError(conn, "event stream closed")
				return
			}

			var evt service.AttemptCompletedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				h.log.Warn().Err(err).Msg("Malformed monitor event, skipped")
				continue
			}

			if err := ws.WriteTyped(conn, ws.AttemptCompletedMessage{
				Event:   ws.EventAttemptCompleted,
				Payload: evt,
			}); err != nil {
				return
			}

		case <-keepAlive.C:
			if err := ws.WriteTyped(conn, ws.PingMessage{Event: ws.EventPing}); err != nil {
				return
			}
		}
	}
}
