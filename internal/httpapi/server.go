// Package httpapi exposes the chat engine and knowledge base over HTTP.
// The API is stateless; conversation context travels in the request and
// response bodies.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ccraze049/ai/internal/chat"
	"github.com/ccraze049/ai/internal/knowledge"
	"github.com/ccraze049/ai/internal/learning"
	"github.com/ccraze049/ai/internal/storage"
)

type Server struct {
	engine    *chat.Engine
	base      *knowledge.Base
	learner   *learning.Manager
	recorder  storage.Recorder
	log       *zap.Logger
	server    *http.Server
	startTime time.Time
}

func NewServer(port int, engine *chat.Engine, base *knowledge.Base, learner *learning.Manager, recorder storage.Recorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:    engine,
		base:      base,
		learner:   learner,
		recorder:  recorder,
		log:       logger,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/knowledge/teach", s.handleTeach)
	mux.HandleFunc("/api/knowledge/improve", s.handleImprove)
	mux.HandleFunc("/api/knowledge/count", s.handleCount)
	mux.HandleFunc("/api/stats/daily", s.handleDailyStats)
	mux.HandleFunc("/api/status", s.handleStatus)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.server.Handler }

func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.server.Shutdown(ctx)
}
