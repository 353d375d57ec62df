package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ignatzorin/expertnet-backend/internal/models"
)

func startHub(t *testing.T) (*Hub, func()) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	return hub, func() {
		cancel()
		wg.Wait()
	}
}

func testClient(hub *Hub, userID string) *Client {
	return &Client{hub: hub, userID: userID, send: make(chan []byte, 4)}
}

func TestHub_PublishDeliversOnlyToOwner(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, stop := startHub(t)

	owner := testClient(hub, "usr_owner")
	other := testClient(hub, "usr_other")
	hub.Register(owner)
	hub.Register(other)

	hub.Publish("usr_owner", models.Event{
		Type: models.EventType("expert", models.ActionUpdated),
		Data: map[string]string{"id": "e1"},
	})

	select {
	case raw := <-owner.send:
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "expert.updated", got["type"])
		assert.Equal(t, map[string]interface{}{"id": "e1"}, got["data"])
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}

	assert.Len(t, other.send, 0)
	stop()
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, stop := startHub(t)
	client := testClient(hub, "usr_1")
	hub.Register(client)
	assert.Eventually(t, func() bool { return hub.ClientCount("usr_1") == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	_, ok := <-client.send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount("usr_1"))

	stop()
}

func TestHub_StopReleasesCallers(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, stop := startHub(t)
	client := testClient(hub, "usr_1")
	hub.Register(client)
	stop()

	// После остановки хаба вызовы не блокируются
	hub.Unregister(client)
	hub.Register(testClient(hub, "usr_2"))
	hub.Publish("usr_1", models.Event{Type: "campaign.deleted"})

	_, ok := <-client.send
	assert.False(t, ok)
}
