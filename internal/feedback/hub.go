// Package feedback streams slide controller events to remote presentation
// devices over WebSocket, for example a phone that plays the haptic pulse.
//
// Messages are JSON text frames with an envelope {type, ts, data}. A device
// receives "state_init" on connect, then "moved", "pulse", "completed" and
// "reset" as they happen. A device that cannot keep up is disconnected.
package feedback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	frameWriteTimeout = 5 * time.Second
	peerIdleTimeout   = 30 * time.Second
	keepalivePeriod   = 20 * time.Second
)

type HubConfig struct {
	// SendBuf is the per-device outbound queue size.
	SendBuf int
	// BroadcastBuf is the hub inbound queue size.
	BroadcastBuf int
}

// Hub owns the set of connected devices. All membership changes go through
// Run; once Run returns, joins are refused and leaves are no-ops.
type Hub struct {
	logger   *slog.Logger
	queueLen int

	frames chan []byte
	joins  chan *peer
	leaves chan *peer
	done   chan struct{}

	mu    sync.Mutex
	peers map[*peer]struct{}
}

// NewHub constructs a hub. Call Run to start it.
func NewHub(logger *slog.Logger, cfg HubConfig) *Hub {
	if cfg.SendBuf <= 0 {
		cfg.SendBuf = 32
	}
	if cfg.BroadcastBuf <= 0 {
		cfg.BroadcastBuf = 128
	}
	return &Hub{
		logger:   logger,
		queueLen: cfg.SendBuf,
		frames:   make(chan []byte, cfg.BroadcastBuf),
		joins:    make(chan *peer),
		leaves:   make(chan *peer),
		done:     make(chan struct{}),
		peers:    make(map[*peer]struct{}),
	}
}

// Run serves membership and fan-out until ctx is canceled, then disconnects
// every device.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for p := range h.peers {
				p.close()
				delete(h.peers, p)
			}
			h.mu.Unlock()
			h.logger.Debug("feedback hub stopped")
			return

		case p := <-h.joins:
			h.mu.Lock()
			h.peers[p] = struct{}{}
			n := len(h.peers)
			h.mu.Unlock()
			h.logger.Info("feedback device connected", "remote_addr", p.addr, "devices", n)

		case p := <-h.leaves:
			h.drop(p, "disconnected")

		case frame := <-h.frames:
			h.fanOut(frame)
		}
	}
}

func (h *Hub) fanOut(frame []byte) {
	var lagging []*peer
	h.mu.Lock()
	for p := range h.peers {
		select {
		case p.out <- frame:
		default:
			lagging = append(lagging, p)
		}
	}
	h.mu.Unlock()
	for _, p := range lagging {
		h.drop(p, "lagging")
	}
}

func (h *Hub) drop(p *peer, reason string) {
	h.mu.Lock()
	_, ok := h.peers[p]
	delete(h.peers, p)
	n := len(h.peers)
	h.mu.Unlock()
	if !ok {
		return
	}
	p.close()
	h.logger.Info("feedback device dropped", "remote_addr", p.addr, "reason", reason, "devices", n)
}

// Clients returns the number of connected devices.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Publish queues a serialized frame for every device. It never blocks; a
// full queue drops the frame.
func (h *Hub) Publish(frame []byte) {
	select {
	case h.frames <- frame:
	default:
		h.logger.Warn("feedback queue full, dropping frame", "bytes", len(frame))
	}
}

// join hands p to Run. It reports false if the hub has stopped.
func (h *Hub) join(p *peer) bool {
	select {
	case h.joins <- p:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(p *peer) {
	select {
	case h.leaves <- p:
	case <-h.done:
	}
}

// Attach registers conn as a device. first, if non-nil, is guaranteed to be
// the first frame it receives. The pumps run until the socket fails or the
// hub drops the device.
func (h *Hub) Attach(conn *websocket.Conn, addr string, first []byte) {
	p := h.newPeer(conn, addr)
	if first != nil {
		p.out <- first
	}
	if !h.join(p) {
		p.close()
		return
	}
	go p.writeLoop(h.logger)
	go p.readLoop(h)
}

// peer is one connected device.
type peer struct {
	conn *websocket.Conn
	out  chan []byte
	addr string
	once sync.Once
}

func (h *Hub) newPeer(conn *websocket.Conn, addr string) *peer {
	return &peer{conn: conn, out: make(chan []byte, h.queueLen), addr: addr}
}

// close shuts the socket and the outbound queue exactly once. The socket may
// be nil in tests.
func (p *peer) close() {
	p.once.Do(func() {
		if p.conn != nil {
			_ = p.conn.Close()
		}
		close(p.out)
	})
}

func (p *peer) logExit(logger *slog.Logger, loop string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		logger.Debug("feedback "+loop+" closed", "remote_addr", p.addr, "code", ce.Code, "reason", ce.Text)
		return
	}
	logger.Debug("feedback "+loop+" ended", "remote_addr", p.addr, "error", err)
}

// writeLoop sends queued frames and keepalive pings. It ends on a write error
// or when the hub closes the queue.
func (p *peer) writeLoop(logger *slog.Logger) {
	keepalive := time.NewTicker(keepalivePeriod)
	defer keepalive.Stop()

	for {
		var err error
		select {
		case frame, ok := <-p.out:
			_ = p.conn.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			err = p.conn.WriteMessage(websocket.TextMessage, frame)
		case <-keepalive.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
			err = p.conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			p.logExit(logger, "writer", err)
			return
		}
	}
}

// readLoop discards inbound frames so pongs extend the deadline and a
// disconnect is noticed, then leaves the hub.
func (p *peer) readLoop(h *Hub) {
	_ = p.conn.SetReadDeadline(time.Now().Add(peerIdleTimeout))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(peerIdleTimeout))
	})
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			p.logExit(h.logger, "reader", err)
			h.leave(p)
			return
		}
	}
}
