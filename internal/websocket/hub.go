package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/domain/repositories"
	"github.com/madmonkey007/EchoListenultra/internal/playback"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Control frames only; the
	// audio itself is fetched over HTTP.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active players.
type Hub struct {
	// Registered players, keyed by user ID.
	players map[string]*Player

	register   chan *Player
	unregister chan *Player

	mu sync.RWMutex

	sessionRepo repositories.SessionRepository

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(sessionRepo repositories.SessionRepository, logger *zap.Logger) *Hub {
	return &Hub{
		players:     make(map[string]*Player),
		register:    make(chan *Player),
		unregister:  make(chan *Player),
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case player := <-h.register:
			h.mu.Lock()
			if prev, ok := h.players[player.userID]; ok {
				close(prev.send)
			}
			h.players[player.userID] = player
			h.mu.Unlock()
			h.logger.Info("Player registered", zap.String("userID", player.userID))

		case player := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.players[player.userID]; ok && cur == player {
				delete(h.players, player.userID)
				close(player.send)
			}
			h.mu.Unlock()
			h.logger.Info("Player unregistered", zap.String("userID", player.userID))
		}
	}
}

// Player is a middleman between one websocket connection and the
// playback engine driving it.
type Player struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	userID string

	logger *zap.Logger

	// Playback state for the loaded session.
	clock     *remoteClock
	engine    *playback.Engine
	sessionID string

	mutex sync.Mutex
}

// HandleWebSocket upgrades a pre-authenticated request and starts the
// player's pumps.
func HandleWebSocket(hub *Hub, c echo.Context, userID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	clock := newRemoteClock()
	player := &Player{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		logger: logger,
		clock:  clock,
		engine: playback.NewEngine(clock),
	}

	player.hub.register <- player

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go player.writePump()
	go player.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the engine.
func (p *Player) readPump() {
	defer func() {
		p.hub.unregister <- p
		p.conn.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				p.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		if messageType != websocket.TextMessage {
			p.logger.Warn("Received unknown message type", zap.Int("type", messageType))
			continue
		}
		p.processMessage(message)
	}
}

// writePump pumps messages from the engine to the websocket connection.
func (p *Player) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case message, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := p.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				p.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage dispatches one incoming control message.
func (p *Player) processMessage(message []byte) {
	parsed, err := ParseMessage(message)
	if err != nil {
		p.logger.Warn("Rejected message", zap.Error(err))
		p.enqueue(CreateErrorMessage("bad_message", err.Error()))
		return
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	switch msg := parsed.(type) {
	case *LoadSessionMessage:
		p.handleLoadSession(msg)
		return
	case *TickMessage:
		p.clock.observe(msg.CurrentTime)
		p.engine.Tick(msg.CurrentTime)
	case *JumpMessage:
		p.engine.JumpToSegment(msg.SegmentIndex)
	case *SeekMessage:
		p.engine.SeekFraction(msg.Fraction, p.totalDuration())
	case *LoopModeMessage:
		p.engine.SetLoopMode(playback.LoopMode(msg.Mode))
	case *BaseMessage:
		switch msg.Type {
		case MessageTypeCycleSpeed:
			p.engine.CycleSpeed()
		case MessageTypeSegmentEnd:
			p.engine.SegmentEnd()
		}
	}

	if p.sessionID == "" {
		p.enqueue(CreateErrorMessage("no_session", "load a session first"))
		return
	}
	p.enqueue(p.syncState())
}

// handleLoadSession swaps the engine onto a new session's segments.
// Caller holds p.mutex.
func (p *Player) handleLoadSession(msg *LoadSessionMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := p.hub.sessionRepo.GetByID(ctx, msg.SessionID)
	if err != nil {
		p.logger.Error("Failed to load session",
			zap.String("sessionID", msg.SessionID),
			zap.Error(err))
		p.enqueue(CreateErrorMessage("load_failed", "failed to load session"))
		return
	}
	if session == nil || session.IsDeleted() || session.UserID != p.userID {
		p.enqueue(CreateErrorMessage("not_found", "session not found"))
		return
	}

	p.engine.SetSegments(session.Segments)
	p.clock.markReady()
	p.sessionID = session.ID

	p.logger.Info("Session loaded",
		zap.String("userID", p.userID),
		zap.String("sessionID", session.ID),
		zap.Int("segments", len(session.Segments)))

	p.enqueue(p.syncState())
}

// syncState snapshots the engine for the client. Caller holds p.mutex.
func (p *Player) syncState() *SyncStateMessage {
	state := p.engine.State()
	msg := &SyncStateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeSyncState,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		SessionID:     p.sessionID,
		ActiveSegment: state.ActiveSegment,
		Speed:         state.Speed,
		LoopMode:      string(state.Mode),
		Playing:       state.Playing,
		SeekTo:        p.clock.takeSeek(),
	}

	if seg, ok := p.engine.ActiveSegment(); ok {
		now := p.clock.CurrentTime()
		if idx, ok := playback.ActiveTokenIndex(seg, now, state.Speed); ok {
			msg.ActiveToken = idx
		}
		msg.TokenStates = playback.TokenStates(seg, now, state.Speed)
	}
	return msg
}

// enqueue marshals and queues a message without blocking the reader.
func (p *Player) enqueue(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		p.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	select {
	case p.send <- payload:
	default:
		p.logger.Warn("Dropping message, send buffer full",
			zap.String("userID", p.userID))
	}
}

func (p *Player) totalDuration() float64 {
	segments := p.engine.Segments()
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].End
}
