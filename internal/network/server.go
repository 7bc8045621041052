// Package network serves the engine over TCP as newline-delimited JSON.
// Each connection owns one engine session, so USE and BEGIN on one
// connection do not leak into another.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/leengari/sqlsandbox/internal/engine"
	"github.com/leengari/sqlsandbox/internal/executor"
)

// Request is one client message. Script takes precedence over Query and is
// run as a batch.
type Request struct {
	Database string `json:"database,omitempty"`
	Query    string `json:"query,omitempty"`
	Script   string `json:"script,omitempty"`
}

type Server struct {
	engine *engine.Engine

	mu       sync.Mutex
	listener net.Listener
	conns    sync.WaitGroup
}

func NewServer(eng *engine.Engine) *Server {
	return &Server{engine: eng}
}

// ListenAndServe binds port and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	slog.Info("Running on port", "port", port)
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled or the
// listener fails. Open connections are waited for before returning.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()
	defer s.conns.Wait()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("Failed to accept connection", "error", err)
			return err
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// Addr is the bound address, nil before Serve
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	connID := uuid.New().String()
	logger := slog.With("conn_id", connID, "remote", conn.RemoteAddr().String())
	logger.Debug("connection opened")
	defer logger.Debug("connection closed")

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	// created on the first request so the client can pick the database
	var session *engine.Session

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return
			}
			logger.Error("decode error", "error", err)
			_ = encoder.Encode(&executor.Result{
				Error:  fmt.Sprintf("Invalid request format: %v", err),
				Output: "Invalid request format",
			})
			return
		}

		if req.Query == "exit" || req.Query == "\\q" {
			return
		}

		if session == nil {
			session = s.engine.NewSession(req.Database)
		} else if req.Database != "" && req.Database != session.CurrentDatabase() {
			session.SetCurrentDatabase(req.Database)
		}

		var reply interface{}
		if req.Script != "" {
			reply = session.ExecuteBatch(req.Script)
		} else {
			reply = session.Execute(req.Query)
		}

		if err := encoder.Encode(reply); err != nil {
			logger.Error("encode error", "error", err)
			return
		}
	}
}
