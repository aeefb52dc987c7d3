// Package server exposes navigation sessions as Model Context Protocol
// tools. Each tool call names a session; sessions are created by the load
// tool and closed after sitting idle for the configured TTL.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/focusnav/internal/session"
	"github.com/mj1618/focusnav/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport  string
	Port       int
	SessionTTL time.Duration // 0 keeps sessions until closed
	ConfigPath string        // engine config file applied to every loaded layout
	Logger     *slog.Logger
}

// Server wraps the MCP server with its session store.
type Server struct {
	cfg    Config
	store  *session.Store
	mcp    *mcpserver.MCPServer
	logger *slog.Logger
}

// New creates a server with every tool registered.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:    cfg,
		store:  session.NewStore(cfg.SessionTTL),
		logger: logger.With(slog.String("component", "mcp")),
	}
	s.mcp = mcpserver.NewMCPServer("focusnav", version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Store returns the session store.
func (s *Server) Store() *session.Store {
	return s.store
}

// Serve runs the configured transport and the idle session sweeper until
// ctx is done or the transport stops. Every session is closed on return.
func (s *Server) Serve(ctx context.Context) error {
	switch s.cfg.Transport {
	case "", "stdio", "streamable-http":
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
	defer s.store.CloseAll()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.sweep(ctx)
		return nil
	})

	if s.cfg.Transport == "streamable-http" {
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		g.Go(func() error {
			defer cancel()
			s.logger.Info("listening", "addr", addr)
			if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return httpServer.Shutdown(shutdownCtx)
		})
	} else {
		g.Go(func() error {
			defer cancel()
			err := mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

// sweep evicts idle sessions every half TTL until ctx is done.
func (s *Server) sweep(ctx context.Context) {
	if s.cfg.SessionTTL <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(max(s.cfg.SessionTTL/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.store.Evict(); len(evicted) > 0 {
				s.logger.Info("evicted idle sessions", "sessions", evicted)
			}
		}
	}
}
