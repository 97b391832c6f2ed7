package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/HendryAvila/gitlab-mcp/internal/config"
	"github.com/mark3labs/mcp-go/server"
)

const shutdownTimeout = 10 * time.Second

// httpTransport is the part of the SSE and streamable HTTP servers that
// Serve drives.
type httpTransport interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

// Serve runs s on the configured transport until ctx is cancelled or the
// transport stops on its own.
func Serve(ctx context.Context, s *server.MCPServer, cfg *config.Config, logger *slog.Logger) error {
	switch cfg.Server.Transport {
	case config.TransportStdio:
		stdio := server.NewStdioServer(s)
		stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
		logger.Info("serving", "transport", cfg.Server.Transport)
		err := stdio.Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio transport: %w", err)
		}
		return nil
	case config.TransportSSE:
		addr := cfg.ListenAddr()
		return serveHTTP(ctx, server.NewSSEServer(s, server.WithBaseURL("http://"+addr)), addr, cfg.Server.Transport, logger)
	case config.TransportStreamableHTTP:
		return serveHTTP(ctx, server.NewStreamableHTTPServer(s), cfg.ListenAddr(), cfg.Server.Transport, logger)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Server.Transport)
	}
}

func serveHTTP(ctx context.Context, t httpTransport, addr, name string, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "transport", name, "addr", addr)
		errCh <- t.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s transport: %w", name, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "transport", name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := t.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down %s transport: %w", name, err)
	}
	return nil
}
