// Package server serves the dashboard API and pushes log changes to live clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/lootlens/lootlens/core"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/internal/pricing"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server holds the state shared by the API handlers.
type Server struct {
	mgr    contract.StoreManager
	source contract.LogSource
	hub    *Hub

	mu        sync.Mutex
	cfg       *contract.Config
	watchCtx  context.Context
	stopWatch context.CancelFunc
}

// New creates a server over the given store manager and log source.
func New(cfg *contract.Config, mgr contract.StoreManager, source contract.LogSource) *Server {
	return &Server{
		cfg:    cfg,
		mgr:    mgr,
		source: source,
		hub:    NewHub(),
	}
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.newRouter()
}

// Hub returns the hub that live clients attach to.
func (s *Server) Hub() *Hub {
	return s.hub
}

// config returns the current base config.
func (s *Server) config() *contract.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// watch moves the log watcher to dir. It does nothing before Serve starts watching.
func (s *Server) watch(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchCtx == nil {
		return
	}
	if s.stopWatch != nil {
		s.stopWatch()
	}
	ctx, cancel := context.WithCancel(s.watchCtx)
	s.stopWatch = cancel
	throttle := s.cfg.Throttle

	go func() {
		if err := core.WatchLogs(ctx, dir, throttle, s.hub); err != nil {
			contract.LogWarn("Log watcher stopped", err)
		}
	}()
	contract.LogInfo("Watching %s", dir)
}

// startWatching enables the watcher and points it at the configured log directory.
func (s *Server) startWatching(ctx context.Context) {
	s.mu.Lock()
	s.watchCtx = ctx
	s.mu.Unlock()

	dir, err := core.ResolveLogDir(ctx, s.config(), s.mgr.GetItemStore(), s.source)
	if err != nil {
		contract.LogWarn("Log watcher not started", err)
		return
	}
	s.watch(dir)
}

// Serve runs the hub, the watcher, the price refresh loop and the HTTP server until ctx is done.
func (s *Server) Serve(ctx context.Context, client contract.PriceClient) error {
	cfg := s.config()
	addr := cfg.ListenAddr
	if addr == "" {
		addr = contract.DefaultListenAddr
	}

	go s.hub.Run(ctx)
	s.startWatching(ctx)
	go core.RunRefreshLoop(ctx, cfg, s.mgr, client)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Dashboard API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server exited")
	return nil
}

// Run starts the dashboard server over the local log directory.
// It serves the 'serve' command.
func Run(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s := New(cfg, mgr, contract.NewLocalLogSource())
	return s.Serve(ctx, pricing.NewClient(cfg.PricesURL, cfg.ExchangeURL))
}
