package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"chartengine/internal/indicator"
	"chartengine/internal/model"
)

// Server exposes the indicator registry over HTTP: listing, figure
// regeneration and on-demand batch calculation, plus the /ws endpoint.
type Server struct {
	reg *indicator.Registry
	hub *Hub
	log *slog.Logger
}

// NewServer wires the API around a registry and a hub.
func NewServer(reg *indicator.Registry, hub *Hub, log *slog.Logger) *Server {
	return &Server{reg: reg, hub: hub, log: log}
}

// Routes registers all handlers on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.hub.HandleWS)
	mux.HandleFunc("/api/indicators", s.handleList)
	mux.HandleFunc("/api/indicators/", s.handleIndicator)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

type indicatorInfo struct {
	Name          string         `json:"name"`
	DefaultParams []int          `json:"defaultParams"`
	Figures       []model.Figure `json:"figures"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	names := s.reg.Names()
	out := make([]indicatorInfo, 0, len(names))
	for _, name := range names {
		def, err := s.reg.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, indicatorInfo{
			Name:          name,
			DefaultParams: def.DefaultParams(),
			Figures:       def.Figures(def.DefaultParams()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleIndicator dispatches /api/indicators/{name}/figures and
// /api/indicators/{name}/calculate.
func (s *Server) handleIndicator(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/indicators/")
	name, action, _ := strings.Cut(rest, "/")

	switch action {
	case "figures":
		s.handleFigures(w, r, name)
	case "calculate":
		s.handleCalculate(w, r, name)
	default:
		writeError(w, http.StatusNotFound, "unknown action")
	}
}

func (s *Server) handleFigures(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	params, err := parseParams(r.URL.Query().Get("params"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	figs, err := indicator.Figures(s.reg, name, params)
	if err != nil {
		writeIndicatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, figs)
}

type calculateRequest struct {
	Candles []model.Candle `json:"candles"`
	Params  []int          `json:"params,omitempty"`
}

type calculateResponse struct {
	Figures []model.Figure `json:"figures"`
	Records []model.Record `json:"records"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req calculateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body: "+err.Error())
		return
	}

	recs, err := indicator.CalculateByName(s.reg, name, req.Candles, req.Params)
	if err != nil {
		writeIndicatorError(w, err)
		return
	}
	figs, err := indicator.Figures(s.reg, name, req.Params)
	if err != nil {
		writeIndicatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calculateResponse{Figures: figs, Records: recs})
}

// parseParams parses "12,26,9" into periods. Empty means defaults.
func parseParams(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	params := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.New("params must be a comma-separated list of integers")
		}
		params = append(params, n)
	}
	return params, nil
}

func writeIndicatorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, indicator.ErrUnknownIndicator):
		writeError(w, http.StatusNotFound, err.Error())
	case indicator.IsParamError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
