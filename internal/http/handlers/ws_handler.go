package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/logger"
	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/service"
	"github.com/ignatzorin/expertnet-backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений живой ленты.
type WSHandler struct {
	hub      *ws.Hub
	resolver service.IdentityResolver
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер. resolver == nil означает, что аутентификация отключена
// и лента принадлежит анонимному пользователю. При пустом allowedOrigins принимается любой Origin.
func NewWSHandler(hub *ws.Hub, resolver service.IdentityResolver, allowedOrigins []string) *WSHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &WSHandler{
		hub:      hub,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
// Браузер не умеет передавать заголовок Authorization при апгрейде, поэтому токен идёт в query.
func (h *WSHandler) Handle(c *gin.Context) {
	identity := models.AnonymousIdentity()

	if h.resolver != nil {
		rawToken := c.Query("token")
		if rawToken == "" {
			response.Unauthorized(c, "Missing token")
			return
		}

		resolved, err := h.resolver.Resolve(c.Request.Context(), rawToken)
		if err != nil {
			if _, ok := apperror.As(err); ok {
				response.Unauthorized(c, apperror.ErrUnauthorized.Message)
				return
			}
			response.Error(c, err)
			return
		}
		identity = *resolved
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		logger.Entry(logrus.Fields{"error": err}).Warn("ws: не удалось установить соединение")
		return
	}

	client := ws.NewClient(conn, h.hub, identity.UserID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
