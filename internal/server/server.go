package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"uniliga-tracker/internal/ingest"
	"uniliga-tracker/internal/service"
)

// Server exposes the pipeline's derived artifacts as JSON.
type Server struct {
	datasetSvc *service.DatasetService
	logger     zerolog.Logger
}

func NewServer(datasetSvc *service.DatasetService, logger zerolog.Logger) *Server {
	return &Server{datasetSvc: datasetSvc, logger: logger}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/select", s.handleSelect)
	mux.HandleFunc("GET /api/v1/standings", s.handleStandings)
	mux.HandleFunc("GET /api/v1/qualification", s.handleQualification)
	mux.HandleFunc("GET /api/v1/bracket", s.handleBracket)
	mux.HandleFunc("GET /api/v1/ratings", s.handleRatings)
	mux.HandleFunc("GET /api/v1/ratings/{team}", s.handleTeamRatings)
	return mux
}

type selectRequest struct {
	Sport  string `json:"sport"`
	Season string `json:"season"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Sport == "" || req.Season == "" {
		s.writeError(w, http.StatusBadRequest, "sport and season are required")
		return
	}

	if err := s.datasetSvc.Select(r.Context(), req.Sport, req.Season); err != nil {
		if errors.Is(err, ingest.ErrSuperseded) {
			s.writeError(w, http.StatusConflict, "selection superseded by a newer one")
			return
		}
		s.logger.Error().Err(err).Str("sport", req.Sport).Str("season", req.Season).Msg("dataset selection failed")
		s.writeError(w, http.StatusBadGateway, "dataset load failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	tables, err := s.datasetSvc.StandingsTables()
	if err != nil {
		s.writeNotAvailable(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toStandingsResponse(tables))
}

func (s *Server) handleQualification(w http.ResponseWriter, r *http.Request) {
	result, err := s.datasetSvc.Qualification()
	if err != nil {
		s.writeNotAvailable(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toQualificationResponse(result))
}

func (s *Server) handleBracket(w http.ResponseWriter, r *http.Request) {
	bracketView, err := s.datasetSvc.Bracket()
	if err != nil {
		s.writeNotAvailable(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toBracketResponse(bracketView))
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	series, err := s.datasetSvc.Series()
	if err != nil {
		s.writeNotAvailable(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRatingsResponse(series))
}

func (s *Server) handleTeamRatings(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	teamSeries, err := s.datasetSvc.TeamSeries(team)
	if err != nil {
		s.writeNotAvailable(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSeriesResponse(teamSeries))
}

func (s *Server) writeNotAvailable(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotAvailable) {
		s.writeError(w, http.StatusNotFound, "not available")
		return
	}
	s.logger.Error().Err(err).Msg("request failed")
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
