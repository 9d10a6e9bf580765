package rpc

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// IdempotencyKeyHeader carries the client-generated key that lets the
// server replay a cached reply instead of re-executing a retried call.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// Handler dispatches one decoded request and returns the reply value
// to marshal back to the caller.
type Handler interface {
	Handle(ctx context.Context, req Request) any
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) any

func (f HandlerFunc) Handle(ctx context.Context, req Request) any {
	return f(ctx, req)
}

type call struct {
	req     Request
	idemKey string
	reply   chan []byte
}

// Server accepts [operation, data] requests over HTTP and feeds them
// to a single receive-process-reply loop: one request is fully
// handled before the next is taken, so handlers never see concurrent
// access to service state and the stores need no locks.
type Server struct {
	name    string
	handler Handler
	logger  *slog.Logger
	calls   chan call

	// replay cache, touched only by the loop goroutine
	replies    map[string][]byte
	order      []string
	maxReplies int
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithReplayCacheSize bounds the idempotency replay cache.
func WithReplayCacheSize(n int) ServerOption {
	return func(s *Server) { s.maxReplies = n }
}

// NewServer wires a handler into a serialized request loop. Run must
// be started before the server can answer requests.
func NewServer(name string, h Handler, opts ...ServerOption) *Server {
	s := &Server{
		name:       name,
		handler:    h,
		logger:     slog.Default(),
		calls:      make(chan call),
		replies:    make(map[string][]byte),
		maxReplies: 1024,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the receive-process-reply loop until ctx is canceled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-s.calls:
			c.reply <- s.process(ctx, c)
		}
	}
}

func (s *Server) process(ctx context.Context, c call) []byte {
	if c.idemKey != "" {
		if cached, ok := s.replies[c.idemKey]; ok {
			s.logger.Debug("replaying cached reply",
				"service", s.name, "idempotency_key", c.idemKey)
			return cached
		}
	}

	op := c.req.Op
	if op == "" {
		op = c.req.Flag
	}
	body, err := json.Marshal(s.handler.Handle(ctx, c.req))
	if err != nil {
		s.logger.Error("marshal reply failed",
			"service", s.name, "operation", op, "err", err)
		body, _ = json.Marshal(Error("internal error"))
	}
	if c.idemKey != "" {
		s.remember(c.idemKey, body)
	}
	s.logger.Debug("handled request", "service", s.name, "operation", op)
	return body
}

func (s *Server) remember(key string, body []byte) {
	if len(s.order) >= s.maxReplies {
		delete(s.replies, s.order[0])
		s.order = s.order[1:]
	}
	s.replies[key] = body
	s.order = append(s.order, key)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Error("malformed request"))
		return
	}

	c := call{
		req:     req,
		idemKey: r.Header.Get(IdempotencyKeyHeader),
		reply:   make(chan []byte, 1),
	}
	select {
	case s.calls <- c:
	case <-r.Context().Done():
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	select {
	case body := <-c.reply:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	case <-r.Context().Done():
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe mounts the server at /rpc next to a /healthz probe
// and blocks serving HTTP on addr.
func ListenAndServe(addr string, s *Server) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/rpc", s)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return httpServer.ListenAndServe()
}
