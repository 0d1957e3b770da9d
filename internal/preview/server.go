// Package preview streams finished layouts to browser viewers over a websocket.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/tilegen/internal/config"
	"github.com/lawnchairsociety/tilegen/internal/layout"
	"github.com/lawnchairsociety/tilegen/internal/logger"
)

const writeTimeout = 10 * time.Second

// Server holds the current layout and pushes it to every connected viewer.
type Server struct {
	cfg     config.PreviewConfig
	limiter *ViewerLimiter

	mu      sync.Mutex
	current *layout.Layout
	changed chan struct{} // closed and replaced by Publish
	viewers map[*websocket.Conn]struct{}
	closing bool
	active  sync.WaitGroup
}

// NewServer creates a preview server with no layout yet.
func NewServer(cfg config.PreviewConfig) *Server {
	return &Server{
		cfg:     cfg,
		limiter: NewViewerLimiter(cfg.MaxViewersPerIP, cfg.MaxViewers),
		changed: make(chan struct{}),
		viewers: make(map[*websocket.Conn]struct{}),
	}
}

// Publish makes l the current layout and sends it to all viewers.
func (s *Server) Publish(l *layout.Layout) {
	s.mu.Lock()
	s.current = l
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()

	total, _ := s.limiter.Stats()
	logger.Info("Layout published", "digest", l.Digest(), "viewers", total)
}

// snapshot returns the current layout and a channel closed on the next Publish
func (s *Server) snapshot() (*layout.Layout, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.changed
}

// Close disconnects every viewer and waits for their goroutines to exit.
// Viewers that connect afterwards are turned away.
func (s *Server) Close() {
	s.mu.Lock()
	s.closing = true
	conns := make([]*websocket.Conn, 0, len(s.viewers))
	for conn := range s.viewers {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
	}
	s.active.Wait()

	if len(conns) > 0 {
		logger.Info("Preview viewers disconnected", "count", len(conns))
	}
}

// track registers a viewer. It fails once Close has started.
func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.viewers[conn] = struct{}{}
	s.active.Add(1)
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.viewers, conn)
	s.mu.Unlock()
	s.active.Done()
}

// Handler returns the HTTP routes: /ws, /layout and /.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/layout", s.handleLayoutJSON)
	mux.HandleFunc("/", s.handleASCII)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then closes every viewer.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Preview server listening", "address", address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.Close()
		if err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleLayoutJSON(w http.ResponseWriter, r *http.Request) {
	l, _ := s.snapshot()
	if l == nil {
		http.Error(w, "no layout published yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(l); err != nil {
		logger.Warning("Layout encode failed", "error", err)
	}
}

func (s *Server) handleASCII(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	l, _ := s.snapshot()
	if l == nil {
		http.Error(w, "no layout published yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := layout.RenderASCII(w, l, true); err != nil {
		logger.Warning("Layout render failed", "error", err)
	}
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	release, ok := s.limiter.Acquire(ip)
	if !ok {
		logger.Warning("Preview connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", ip)
		http.Error(w, "Too many viewers. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Preview connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		release()
		return
	}
	if !s.track(conn) {
		conn.Close()
		release()
		return
	}

	go s.serveViewer(conn, ip, release)
}

// serveViewer sends the current layout, then every later one, until the
// viewer disconnects.
func (s *Server) serveViewer(conn *websocket.Conn, ip string, release func()) {
	defer func() {
		release()
		conn.Close()
		s.untrack(conn)
	}()

	if s.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.MaxMessageSize)
	}

	// Viewers never send anything meaningful; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger.Debug("Viewer connected", "client_ip", ip)
	for {
		l, changed := s.snapshot()
		if l != nil {
			if err := s.sendLayout(conn, l, closed); err != nil {
				logger.Debug("Viewer disconnected", "client_ip", ip, "error", err)
				return
			}
		}

		select {
		case <-changed:
		case <-closed:
			logger.Debug("Viewer disconnected", "client_ip", ip)
			return
		}
	}
}

var errViewerClosed = errors.New("viewer closed")

func (s *Server) sendLayout(conn *websocket.Conn, l *layout.Layout, closed <-chan struct{}) error {
	delay := s.cfg.FrameDelay()

	for _, frame := range Frames(l) {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(frame); err != nil {
			return err
		}

		if delay > 0 && frame.Type == FramePlace {
			select {
			case <-time.After(delay):
			case <-closed:
				return errViewerClosed
			}
		}
	}
	return nil
}
