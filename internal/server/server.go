// Package server exposes the analyzer over HTTP and socket.io.
//
// Routes:
//
//	GET  /health        liveness check, always "OK"
//	POST /analyze       TAC text in the body, report out (?format=json|dot|text)
//	     /socket.io/    socket.io endpoint, see EventAnalyze
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/zishang520/socket.io/v2/socket"
	"golang.org/x/sync/errgroup"

	"github.com/SuramyaVimal/dag-cd/internal/ctxlog"
	"github.com/SuramyaVimal/dag-cd/internal/export"
	"github.com/SuramyaVimal/dag-cd/internal/pipeline"
)

// socket.io event names.
const (
	// EventAnalyze carries TAC source from the client, as a string or as an
	// object with a "source" field.
	EventAnalyze = "analyze"
	// EventResult carries the export.Document back to the client.
	EventResult = "result"
	// EventError carries a message when the analysis failed.
	EventError = "analysis_error"
)

// SocketPath is where the socket.io endpoint is mounted.
const SocketPath = "/socket.io/"

// MaxBodyBytes bounds the size of a POST /analyze body.
const MaxBodyBytes = 1 << 20

const shutdownTimeout = 5 * time.Second

// Server serves analyses. Create it with New.
type Server struct {
	ctx      context.Context
	logger   *slog.Logger
	analyzer *pipeline.Analyzer
	io       *socket.Server
	handler  http.Handler
}

// New wires the routes. ctx supplies the logger and is the parent context of
// every analysis.
func New(ctx context.Context, analyzer *pipeline.Analyzer) *Server {
	ctx, logger := ctxlog.With(ctx, "component", "server")
	s := &Server{
		ctx:      ctx,
		logger:   logger,
		analyzer: analyzer,
		io:       socket.NewServer(nil, nil),
	}
	s.io.On("connection", s.onConnection)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/analyze", s.analyzeHandler)
	mux.Handle(SocketPath, s.io.ServeHandler(nil))
	s.handler = mux
	return s
}

// Handler returns the root handler, for embedding or httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Server starting.", "address", "http://"+ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server...")
		s.io.Close(nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.logger.Debug("Server shut down gracefully.")
		return nil
	})
	return g.Wait()
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("remote_addr", r.RemoteAddr)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}
	if !validFormat(format) {
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, "failed to read body: "+err.Error(), status)
		return
	}
	source := string(body)
	if strings.TrimSpace(source) == "" {
		http.Error(w, "request body must contain TAC source", http.StatusBadRequest)
		return
	}

	doc, err := s.analyze(r.Context(), source)
	if err != nil {
		logger.Error("Analysis failed.", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	if err := export.Write(w, format, doc); err != nil {
		logger.Error("Failed to write response.", "error", err)
	}
}

func (s *Server) onConnection(clients ...any) {
	client, ok := clients[0].(*socket.Socket)
	if !ok {
		return
	}
	logger := s.logger.With("sid", client.Id())
	logger.Debug("Socket client connected.")

	client.On(EventAnalyze, func(args ...any) {
		source, err := sourceFromEvent(args)
		if err != nil {
			logger.Warn("Rejected analyze event.", "error", err)
			_ = client.Emit(EventError, err.Error())
			return
		}
		doc, err := s.analyze(s.ctx, source)
		if err != nil {
			logger.Error("Analysis failed.", "error", err)
			_ = client.Emit(EventError, err.Error())
			return
		}
		if err := client.Emit(EventResult, doc); err != nil {
			logger.Error("Failed to emit result.", "error", err)
		}
	})
	client.On("disconnect", func(reason ...any) {
		logger.Debug("Socket client disconnected.", "reason", reason)
	})
}

// analyze runs the pipeline with the server's logger attached to ctx.
func (s *Server) analyze(ctx context.Context, source string) (*export.Document, error) {
	ctx = ctxlog.WithLogger(ctx, s.logger)
	res, err := s.analyzer.Analyze(ctx, source)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Analysis served.", "key", res.Key, "cached", res.Cached, "empty", res.Empty())
	return res.Document(), nil
}

func sourceFromEvent(args []any) (string, error) {
	if len(args) == 0 {
		return "", errors.New("analyze event without payload")
	}
	switch v := args[0].(type) {
	case string:
		return v, nil
	case map[string]any:
		if src, ok := v["source"].(string); ok {
			return src, nil
		}
	}
	return "", fmt.Errorf("analyze payload must be a string or {\"source\": string}, got %T", args[0])
}

func validFormat(format string) bool {
	for _, f := range export.Formats {
		if f == format {
			return true
		}
	}
	return false
}
