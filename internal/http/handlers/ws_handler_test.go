package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/ws"
)

type staticResolver map[string]string

func (r staticResolver) Resolve(_ context.Context, token string) (*models.Identity, error) {
	userID, ok := r[token]
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	return &models.Identity{UserID: userID}, nil
}

func startWSServer(t *testing.T) (*ws.Hub, *httptest.Server) {
	t.Helper()
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	h := NewWSHandler(hub, staticResolver{"good": "usr_1"}, nil)
	r := gin.New()
	r.GET("/api/ws", h.Handle)
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})
	return hub, srv
}

func TestWSHandler_RejectsMissingAndBadToken(t *testing.T) {
	_, srv := startWSServer(t)

	resp, err := http.Get(srv.URL + "/api/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/ws?token=bad")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWSHandler_DeliversOwnerEvents(t *testing.T) {
	hub, srv := startWSServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=good"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount("usr_1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("usr_1", models.Event{Type: models.EventType("campaign", models.ActionCreated), Data: map[string]string{"id": "c1"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.Event
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "campaign.created", got.Type)
}
