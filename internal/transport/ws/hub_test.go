package ws

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rspo-readiness/internal/model"
)

func receive(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case raw := <-conn.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := NewHub()
	tab1 := &Connection{UserID: "u1", Send: make(chan []byte, 4), Hub: hub}
	tab2 := &Connection{UserID: "u1", Send: make(chan []byte, 4), Hub: hub}
	other := &Connection{UserID: "u2", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(tab1)
	hub.Register(tab2)
	hub.Register(other)
	require.Eventually(t, func() bool { return hub.Count("u1") == 2 }, time.Second, 10*time.Millisecond)

	hub.BroadcastToUser("u1", "progress_update", map[string]int{"score": 4})

	for _, conn := range []*Connection{tab1, tab2} {
		msg := receive(t, conn)
		assert.Equal(t, MessageType("progress_update"), msg.Type)
		assert.JSONEq(t, `{"score":4}`, string(msg.Payload))
	}
	select {
	case <-other.Send:
		t.Fatal("another user received the event")
	case <-time.After(50 * time.Millisecond):
	}

	hub.Unregister(tab1)
	require.Eventually(t, func() bool { return hub.Count("u1") == 1 }, time.Second, 10*time.Millisecond)
	_, open := <-tab1.Send
	assert.False(t, open, "send channel is closed on unregister")
}

type staticTokens map[string]string

func (s staticTokens) ValidateToken(token string) (*model.UserClaims, error) {
	if id, ok := s[token]; ok {
		return &model.UserClaims{UserID: id, Role: model.RolePetani}, nil
	}
	return nil, errors.New("bad token")
}

func TestUserWS(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, staticTokens{"good": "u1"}).UserWS))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("rejects bad tokens", func(t *testing.T) {
		for _, query := range []string{"", "?token=bad"} {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL+query, nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		}
	})

	t.Run("delivers events", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=good", nil)
		require.NoError(t, err)
		defer conn.Close()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))

		var hello Message
		require.NoError(t, conn.ReadJSON(&hello))
		assert.Equal(t, MsgConnected, hello.Type)
		assert.JSONEq(t, `{"userId":"u1"}`, string(hello.Payload))

		require.Eventually(t, func() bool { return hub.Count("u1") == 1 }, time.Second, 10*time.Millisecond)
		hub.BroadcastToUser("u1", "stage_completed", map[string]bool{"eligible": true})

		var event Message
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, MessageType("stage_completed"), event.Type)
		assert.JSONEq(t, `{"eligible":true}`, string(event.Payload))
	})
}
