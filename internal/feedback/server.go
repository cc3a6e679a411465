package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server owns the hub, the sink feeding it and the HTTP endpoint.
type Server struct {
	logger *slog.Logger
	hub    *Hub
	sink   *Sink
}

func NewServer(logger *slog.Logger, cfg HubConfig) *Server {
	return &Server{
		logger: logger,
		hub:    NewHub(logger, cfg),
		sink:   NewSink(logger, 0),
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Sink is the slide.Sink to hand to controllers.
func (s *Server) Sink() *Sink { return s.sink }

// Register installs the WebSocket handler at path.
func (s *Server) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleEvents)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("feedback upgrade failed", "error", err)
		return
	}

	now := time.Now().UTC()
	first, err := json.Marshal(envelope{Type: "state_init", Ts: &now, Data: s.sink.Snapshot()})
	if err != nil {
		s.logger.Warn("feedback snapshot marshal failed", "error", err)
		first = nil
	}
	s.hub.Attach(conn, r.RemoteAddr, first)
}

// ListenAndServe runs the hub, the sink and an HTTP server on addr until
// ctx is canceled. ready, if non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr, path string, ready chan<- net.Addr) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	s.Register(mux, path)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go s.hub.Run(ctx)
	go s.sink.Run(ctx, s.hub)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("feedback listening", "addr", ln.Addr().String(), "path", path)
	if ready != nil {
		ready <- ln.Addr()
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
