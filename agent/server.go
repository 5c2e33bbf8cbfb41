package agent

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"pentago/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Parser builds a state from the board text sent by clients.
type Parser func(board string, turn game.Player) (game.State, error)

type FindMoveRequest struct {
	Board    string `json:"board"`
	Turn     string `json:"turn"`
	BudgetMS int64  `json:"budget_ms,omitempty"`
}

type FindMoveResponse struct {
	Move     string `json:"move"`
	Episodes int    `json:"episodes,omitempty"`
	Depth    int    `json:"depth,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server answers move requests one at a time since engines keep state between turns.
type Server struct {
	mu     sync.Mutex
	agent  Agent
	parse  Parser
	budget time.Duration
	router chi.Router
}

func NewServer(agent Agent, parse Parser, budget time.Duration) *Server {
	s := &Server{agent: agent, parse: parse, budget: budget}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/findmove", s.handleFindMove)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	log.Info().Msgf("Agent server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var req FindMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request: " + err.Error()})
		return
	}
	turn, ok := game.ParsePlayer(req.Turn)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown turn player " + req.Turn})
		return
	}
	state, err := s.parse(req.Board, turn)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	budget := s.budget
	if req.BudgetMS > 0 {
		budget = time.Duration(req.BudgetMS) * time.Millisecond
	}

	s.mu.Lock()
	move, err := s.agent.ChooseMove(r.Context(), state, budget)
	metric := s.agent.Metric()
	s.mu.Unlock()

	switch {
	case errors.Is(err, game.ErrTerminalState):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case err != nil:
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("move search failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, FindMoveResponse{Move: move.String(), Episodes: metric.Episodes, Depth: metric.Depth})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
