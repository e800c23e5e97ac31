// Package websocket upgrades authenticated HTTP requests into hub
// clients.
package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/hub"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/service"
)

// Handler authenticates and upgrades realtime connections. The bearer
// credential is verified once, before the upgrade: a rejected handshake
// never produces a connection, so no event handler can run for an
// unauthenticated peer.
type Handler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
	presence *hub.PresenceIndex
	session  *hub.SessionManager
	identity *service.IdentityService
}

// NewHandler creates the websocket Handler.
func NewHandler(h *hub.Hub, presence *hub.PresenceIndex, session *hub.SessionManager, identity *service.IdentityService, allowedOrigin string) *Handler {
	if h == nil || presence == nil || session == nil || identity == nil {
		panic("all dependencies must be non-nil for websocket Handler")
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}
	return &Handler{
		upgrader: upgrader,
		hub:      h,
		presence: presence,
		session:  session,
		identity: identity,
	}
}

// HandleConnection is the gin handler for the realtime endpoint.
func (h *Handler) HandleConnection(c *gin.Context) {
	token := extractToken(c)
	user, err := h.identity.VerifyToken(c.Request.Context(), token)
	if err != nil {
		logrus.WithError(err).Warn("Websocket handshake rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logrus.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := hub.NewClient(h.hub, h.session, conn, *user)
	h.presence.Add(client)
	logrus.WithFields(logrus.Fields{
		"conn_id":  client.ID(),
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("Websocket connection established")
	client.Run()
}

// extractToken pulls the handshake credential from the token query
// parameter or the Authorization header. Browsers cannot set headers on
// websocket upgrades, hence the query fallback.
func extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
