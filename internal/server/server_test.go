package server

import (
	"context"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/gesturecast/internal/config"
	"github.com/zeusync/gesturecast/internal/core/caster"
	"github.com/zeusync/gesturecast/internal/core/classify"
	"github.com/zeusync/gesturecast/internal/core/events/bus"
	"github.com/zeusync/gesturecast/internal/core/observability/log"
	"github.com/zeusync/gesturecast/internal/core/raster"
)

func circleClassifier() classify.Classifier {
	return classify.ClassifierFunc(func(*raster.Bitmap) ([]float32, error) {
		scores := make([]float32, classify.NumClasses)
		scores[classify.ClassCircle] = 1
		return scores, nil
	})
}

func newTestServer(t *testing.T, outcomes bus.EventBus) *Server {
	t.Helper()
	cfg := config.Default().Server
	cfg.Addr = "127.0.0.1:0"
	logger := log.NewNop()
	return New(cfg, logger, func(events bus.EventBus) *caster.Caster {
		return caster.New(caster.DefaultConfig(), logger, circleClassifier(), nil, events)
	}, outcomes)
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	return conn
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func receive(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestDrawRingOverWebSocket(t *testing.T) {
	outcomes := bus.New()
	published := make(chan caster.Outcome, 4)
	_, err := outcomes.Subscribe(bus.EventGestureDrawn, func(e bus.Event) error {
		published <- e.Data().(caster.Outcome)
		return nil
	})
	require.NoError(t, err)

	srv := newTestServer(t, outcomes)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	conn := dial(t, wsURL(ts.URL))

	forward := [3]float64{0, 0, 1}
	start := [3]float64{0.2, 1.5, 1}
	send(t, conn, ClientMessage{Type: MessageBegin, Hand: "right", Position: &start, Forward: &forward})
	started := receive(t, conn)
	require.Equal(t, MessageStarted, started.Type)
	assert.Equal(t, "right", started.Hand)
	assert.NotEmpty(t, started.ID)

	for i := 0; i <= 180; i++ {
		theta := 2 * math.Pi * float64(i) / 180
		pos := [3]float64{0.2 * math.Cos(theta), 1.5 + 0.2*math.Sin(theta), 1}
		send(t, conn, ClientMessage{Type: MessagePose, Hand: "right", Position: &pos})
		send(t, conn, ClientMessage{Type: MessageTick, DT: 1.0 / 90})
	}

	send(t, conn, ClientMessage{Type: MessageEnd, Hand: "right"})
	result := receive(t, conn)
	require.Equal(t, MessageResult, result.Type, result.Error)
	assert.Equal(t, started.ID, result.ID)
	require.NotNil(t, result.Spell)
	assert.Equal(t, classify.SpellFireball, *result.Spell)
	assert.Equal(t, "circle", result.ClassName)
	require.NotNil(t, result.Success)
	assert.True(t, *result.Success)
	assert.Len(t, result.Scores, classify.NumClasses)

	for i := 0; i < 2*90; i++ {
		send(t, conn, ClientMessage{Type: MessageTick, DT: 1.0 / 90})
	}
	disposed := receive(t, conn)
	require.Equal(t, MessageDisposed, disposed.Type)
	assert.Equal(t, started.ID, disposed.ID)
	require.NotNil(t, disposed.Success)
	assert.True(t, *disposed.Success)

	require.Len(t, published, 1)
	assert.Equal(t, started.ID, (<-published).ID.String())
}

func TestProtocolErrors(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, nil).Handler())
	defer ts.Close()
	conn := dial(t, wsURL(ts.URL))

	send(t, conn, ClientMessage{Type: MessageEnd, Hand: "left"})
	msg := receive(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, caster.ErrNotDrawing.Error())

	send(t, conn, ClientMessage{Type: MessageTick})
	msg = receive(t, conn)
	assert.Equal(t, MessageError, msg.Type)

	send(t, conn, ClientMessage{Type: "jump"})
	msg = receive(t, conn)
	assert.Contains(t, msg.Error, ErrUnknownMessage.Error())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = receive(t, conn)
	assert.Contains(t, msg.Error, ErrInvalidMessage.Error())

	send(t, conn, ClientMessage{Type: MessageBegin, Hand: "left"})
	assert.Equal(t, MessageStarted, receive(t, conn).Type)
	send(t, conn, ClientMessage{Type: MessageBegin, Hand: "left"})
	msg = receive(t, conn)
	assert.Contains(t, msg.Error, caster.ErrAlreadyDrawing.Error())

	send(t, conn, ClientMessage{Type: MessageAbandon, Hand: "left"})
	assert.Equal(t, MessageAbandoned, receive(t, conn).Type)
}

func TestStartStop(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()

	require.NoError(t, srv.Start(ctx))
	assert.ErrorIs(t, srv.Start(ctx), ErrServerAlreadyRunning)

	conn := dial(t, "ws://"+srv.Addr().String()+"/ws")
	send(t, conn, ClientMessage{Type: MessageBegin, Hand: "left"})
	assert.Equal(t, MessageStarted, receive(t, conn).Type)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(stopCtx))
	assert.ErrorIs(t, srv.Stop(stopCtx), ErrServerNotRunning)

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
