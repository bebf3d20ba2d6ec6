// Package server provides the HTTP Gateway: a handful of fixed endpoints
// (health, static UI, JSON-RPC invoke, SSE events) around the RPC
// Dispatcher and Event Bus.
package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/agent-board/backend/internal/eventbus"
	"github.com/agent-board/backend/internal/rpc"
	"github.com/agent-board/backend/internal/webui"
)

// DefaultPort is the port the gateway tries first; spec.md's fixed choice,
// with fallback to an OS-assigned port if it is already taken.
const DefaultPort = 17872

// Server is the HTTP Gateway.
type Server struct {
	dispatcher *rpc.Dispatcher
	bus        *eventbus.Bus
}

// New builds a Server around a dispatcher and the event bus it streams from.
func New(d *rpc.Dispatcher, bus *eventbus.Bus) *Server {
	return &Server{dispatcher: d, bus: bus}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/invoke", s.handleInvoke)
	mux.HandleFunc("GET /api/events", s.handleEvents)

	dist, err := fs.Sub(webui.Files, "dist")
	if err != nil {
		slog.Error("webui: embedded dist missing", "err", err)
		dist = webui.Files
	}
	mux.Handle("GET /", http.FileServerFS(dist))
	return mux
}

// ListenAndServe binds preferredPort (DefaultPort when 0), falling back to
// an OS-assigned port if that bind fails, and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, preferredPort int) error {
	if preferredPort == 0 {
		preferredPort = DefaultPort
	}
	ln, actualPort, err := listen(preferredPort)
	if err != nil {
		return err
	}

	handler := requestLogMiddleware(compressMiddleware(s.mux()))
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	slog.Info("listening", "port", actualPort)
	return srv.Serve(ln)
}

// listen binds preferredPort, falling back to port 0 (OS-assigned) on any
// bind error, not only when the port is taken (spec §6, "Ports").
func listen(preferredPort int) (net.Listener, int, error) {
	addr := net.JoinHostPort("", strconv.Itoa(preferredPort))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Warn("preferred port unavailable, falling back to an OS-assigned port", "port", preferredPort, "err", err)
		ln, err = net.Listen("tcp", ":0")
		if err != nil {
			return nil, 0, err
		}
	}
	return ln, ln.Addr().(*net.TCPAddr).Port, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
