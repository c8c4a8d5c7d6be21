package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// evaluateRequest is the body of POST /v1/evaluate.
type evaluateRequest struct {
	Reference string `json:"reference"`
	Spoken    string `json:"spoken"`
}

// deckSummary is one entry in the GET /v1/decks response.
type deckSummary struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Phrases  int    `json:"phrases"`
}

// errorResponse is the JSON body for all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// handleEvaluate scores one spoken attempt against one reference phrase
// without any session state.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Reference) == "" {
		writeError(w, http.StatusBadRequest, "reference must not be blank")
		return
	}
	if strings.TrimSpace(req.Spoken) == "" {
		writeError(w, http.StatusBadRequest, "spoken must not be blank")
		return
	}

	start := time.Now()
	report := s.evaluator.Evaluate(req.Reference, req.Spoken)
	s.metrics.RecordEvaluation(r.Context(), time.Since(start).Seconds(), string(report.Band))

	writeJSON(w, http.StatusOK, report)
}

// handleDecks lists the loaded decks.
func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks := s.manager.Decks()
	out := make([]deckSummary, 0, len(decks))
	for _, d := range decks {
		out = append(out, deckSummary{
			Name:     d.Name,
			Language: d.Language,
			Phrases:  len(d.Phrases),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
