package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"deepchess/agent"
	"deepchess/communication"
	"deepchess/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-Id"

// MaxBodyBytes caps the size of a move request body.
const MaxBodyBytes = 1 << 16

// Server exposes the registered agents as JSON move endpoints.
type Server struct {
	registry *agent.Registry
	logger   zerolog.Logger
	mux      *http.ServeMux
}

func NewServer(registry *agent.Registry, logger zerolog.Logger) *Server {
	s := &Server{
		registry: registry,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/chess/engines/{name}", s.handleMove)
	s.mux.HandleFunc("GET /api/chess/engines", s.handleEngines)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info().Msgf("serving engines %v on %s", s.registry.Names(), addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		logger := s.logger.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := zerolog.Ctx(r.Context())
	name := r.PathValue("name")

	a, ok := s.registry.Get(name)
	if !ok {
		logger.Warn().Msgf("unknown engine %q", name)
		writeJSON(w, http.StatusNotFound, communication.MoveResponse{
			Status:  communication.StatusError,
			Message: "unknown engine " + name,
		})
		return
	}

	var request communication.MoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&request); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	response := s.step(a, request)
	end := time.Now()
	response.Stats.StartTime = start
	response.Stats.EndTime = end
	response.Stats.ElapsedTime = end.Sub(start).Seconds()

	if response.Status == communication.StatusSuccess {
		logger.Info().
			Str("engine", name).
			Str("fen", response.Input).
			Str("move", response.Move).
			Int("iterations", response.Stats.TreeSearchCount).
			Float64("elapsed", response.Stats.ElapsedTime).
			Msg("move served")
	} else {
		logger.Error().Str("engine", name).Str("fen", request.FEN).Msg(response.Message)
	}
	writeJSON(w, http.StatusCreated, response)
}

// step runs the agent and reports failures inside the response body.
func (s *Server) step(a agent.Agent, request communication.MoveRequest) communication.MoveResponse {
	state, err := game.FromFEN(request.FEN)
	if err != nil {
		return communication.MoveResponse{Status: communication.StatusError, Message: err.Error()}
	}

	budget, err := request.Budget()
	if err != nil {
		return communication.MoveResponse{Status: communication.StatusError, Message: err.Error()}
	}
	step, err := a.Step(state, budget)
	if err != nil {
		return communication.MoveResponse{Status: communication.StatusError, Message: err.Error()}
	}

	return communication.MoveResponse{
		Status:      communication.StatusSuccess,
		Move:        step.Move.String(),
		Board:       step.State.String(),
		Input:       state.String(),
		IsCheckMate: step.State.IsCheckmate(),
		Stats:       communication.NewStats(step.Stats, time.Time{}, time.Time{}),
	}
}

func (s *Server) handleEngines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, communication.EnginesResponse{Engines: s.registry.Names()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response: "+err.Error(), http.StatusInternalServerError)
	}
}
