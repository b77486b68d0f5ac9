package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"renju/communication"
	"renju/game"
	"renju/searcher/agent"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server exposes one agent over HTTP. Requests are served one at a time since the
// agent keeps its search tree between moves.
type Server struct {
	mu     sync.Mutex
	agent  agent.Agent
	size   int
	logger zerolog.Logger
	router chi.Router
}

func New(a agent.Agent, size int, logger zerolog.Logger) *Server {
	s := &Server{agent: a, size: size, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(func(next http.Handler) http.Handler { return accessLog(logger, next) })
	r.Use(middleware.Recoverer)

	r.Get("/ping", s.handlePing)
	r.Post("/move", s.handleMove)
	r.Post("/reset", s.handleReset)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Msgf("agent server listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, communication.PingResponse{OK: true, Size: s.size})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req communication.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	board := game.NewBoard(s.size)
	for _, move := range req.Moves {
		if board.Winner() != game.Empty {
			writeError(w, http.StatusConflict, "moves continue after the game was won")
			return
		}
		if err := board.Move(move); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		board.CheckWin(move)
	}
	if board.Winner() != game.Empty || board.IsFull() {
		writeError(w, http.StatusConflict, "game is over")
		return
	}

	s.mu.Lock()
	move, metric, err := s.agent.FindMove(board)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to find a move")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	x, y := board.XY(move)
	writeJSON(w, http.StatusOK, communication.MoveResponse{Move: move, X: x, Y: y, Simulations: metric.Simulations})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.agent.Reset()
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func accessLog(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		reqLog := log.With().
			Str("rid", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		next.ServeHTTP(ww, r)

		reqLog.Info().
			Int("status", ww.Status()).
			Dur("dur", time.Since(start)).
			Msg("request completed")
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, communication.ErrorResponse{Error: msg})
}
