package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kanban-task-api/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestEventsHandler_BroadcastsTaskChanges(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	created := env.create(t, "Evento")
	env.do(t, http.MethodPatch, "/api/tasks/"+created.ID+"/status", map[string]string{"status": "DONE"})

	read := func() realtime.Event {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var evt realtime.Event
		require.NoError(t, json.Unmarshal(msg, &evt))
		return evt
	}

	evt := read()
	require.Equal(t, realtime.EventTaskCreated, evt.Type)
	require.Equal(t, created.ID, evt.TaskID)
	require.Equal(t, "TODO", evt.Status)
	require.NotEmpty(t, evt.Timestamp)

	evt = read()
	require.Equal(t, realtime.EventTaskStatusChanged, evt.Type)
	require.Equal(t, "DONE", evt.Status)
}

func TestEventsHandler_RejectsForeignOrigin(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Zero(t, env.hub.Len())
}

func TestEventsHandler_ClosedHubDropsClient(t *testing.T) {
	env := newTestEnv(t)
	env.hub.Close()
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}

func TestWSClient_SendNeverBlocks(t *testing.T) {
	client := newWSClient(nil)

	for i := 0; i < sendBuffer; i++ {
		require.True(t, client.Send([]byte("evt")))
	}

	start := time.Now()
	require.False(t, client.Send([]byte("overflow")))
	require.Less(t, time.Since(start), writeWait)

	client.Close()
	client.Close()
	<-client.send
	require.False(t, client.Send([]byte("after close")))
}
