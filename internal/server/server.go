// Package server exposes drawing sessions over a websocket. Each connection
// owns one caster: the client streams poses and ticks, the server answers
// with classification results and disposal notices.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/zeusync/gesturecast/internal/config"
	"github.com/zeusync/gesturecast/internal/core/caster"
	"github.com/zeusync/gesturecast/internal/core/events/bus"
	"github.com/zeusync/gesturecast/internal/core/observability/log"
	"github.com/zeusync/gesturecast/internal/core/vecmath"
)

// CasterFactory builds the caster for a new connection. The caster must
// publish to events.
type CasterFactory func(events bus.EventBus) *caster.Caster

type Server struct {
	cfg       config.ServerConfig
	logger    log.Log
	newCaster CasterFactory
	// outcomes receives every gesture.drawn event of every connection.
	outcomes bus.EventBus
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener
	running    atomic.Bool

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	wg    sync.WaitGroup
}

func New(cfg config.ServerConfig, logger log.Log, newCaster CasterFactory, outcomes bus.EventBus) *Server {
	return &Server{
		cfg:       cfg,
		logger:    logger.With(log.String("component", "server")),
		newCaster: newCaster,
		outcomes:  outcomes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler routes /ws to the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", log.Error(err))
		}
	}()
	s.logger.Info("server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Addr is the bound listen address once started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the HTTP server down and closes open websocket connections.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}
	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		err = errors.Join(err, ctx.Err())
	}
	s.logger.Info("server stopped")
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", log.Error(err))
		return
	}
	conn.SetReadLimit(s.cfg.MaxMessageSize)

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	s.wg.Add(1)
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
		s.wg.Done()
	}()

	s.newSession(conn).run()
}

// session serves one connection. All reads, caster calls and writes happen
// on the connection's goroutine.
type session struct {
	conn     *websocket.Conn
	logger   log.Log
	caster   *caster.Caster
	pointers map[caster.Hand]*remotePointer
}

func (s *Server) newSession(conn *websocket.Conn) *session {
	ss := &session{
		conn:     conn,
		logger:   s.logger.With(log.String("remote_addr", conn.RemoteAddr().String())),
		pointers: make(map[caster.Hand]*remotePointer),
	}

	events := bus.New()
	_, _ = events.Subscribe(bus.EventGestureDisposed, func(e bus.Event) error {
		d, ok := e.Data().(caster.Disposal)
		if !ok {
			return nil
		}
		return ss.write(ServerMessage{
			Type:    MessageDisposed,
			Hand:    string(d.Hand),
			ID:      d.ID.String(),
			Success: &d.Success,
		})
	})
	if s.outcomes != nil {
		_, _ = events.Subscribe(bus.EventGestureDrawn, s.outcomes.Publish)
	}
	ss.caster = s.newCaster(events)
	return ss
}

func (ss *session) run() {
	ss.logger.Info("client connected")
	defer func() {
		ss.caster.Close()
		ss.logger.Info("client disconnected")
	}()

	for {
		_, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ss.logger.Warn("read failed", log.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			err = ss.write(errorMessage("", fmt.Errorf("%w: %v", ErrInvalidMessage, err)))
		} else {
			err = ss.handle(msg)
		}
		if err != nil {
			ss.logger.Warn("write failed", log.Error(err))
			return
		}
	}
}

// handle applies one client message. Only write failures are returned;
// request errors are reported to the client.
func (ss *session) handle(msg ClientMessage) error {
	hand := caster.Hand(msg.Hand)
	var reply *ServerMessage

	switch msg.Type {
	case MessageBegin:
		p := ss.pointer(hand)
		p.update(msg)
		id, err := ss.caster.Begin(hand, p)
		if err != nil {
			return ss.write(errorMessage(msg.Hand, err))
		}
		reply = &ServerMessage{Type: MessageStarted, Hand: msg.Hand, ID: id.String()}
	case MessagePose:
		ss.pointer(hand).update(msg)
	case MessageTick:
		if msg.DT <= 0 {
			return ss.write(errorMessage(msg.Hand, fmt.Errorf("%w: dt must be positive", ErrInvalidMessage)))
		}
		ss.caster.Tick(msg.DT)
	case MessageEnd:
		out, err := ss.caster.End(hand)
		if err != nil {
			return ss.write(errorMessage(msg.Hand, err))
		}
		m := resultMessage(out)
		reply = &m
	case MessageAbandon:
		if err := ss.caster.Abandon(hand); err != nil {
			return ss.write(errorMessage(msg.Hand, err))
		}
		reply = &ServerMessage{Type: MessageAbandoned, Hand: msg.Hand}
	default:
		return ss.write(errorMessage(msg.Hand, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)))
	}

	if reply == nil {
		return nil
	}
	return ss.write(*reply)
}

func (ss *session) pointer(hand caster.Hand) *remotePointer {
	p, ok := ss.pointers[hand]
	if !ok {
		p = &remotePointer{forward: vecmath.Forward}
		ss.pointers[hand] = p
	}
	return p
}

func (ss *session) write(msg ServerMessage) error {
	return ss.conn.WriteJSON(msg)
}
