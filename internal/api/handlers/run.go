package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/service"
)

type RunHandler struct {
	runService         *service.RunService
	ingestService      *service.IngestService
	competitionService *service.CompetitionService
}

func NewRunHandler(runService *service.RunService, ingestService *service.IngestService, competitionService *service.CompetitionService) *RunHandler {
	return &RunHandler{
		runService:         runService,
		ingestService:      ingestService,
		competitionService: competitionService,
	}
}

// Trigger starts a reconciliation pass in the background. The run outlives
// the request; progress streams over the websocket and the report lands on
// GET /runs/latest.
func (h *RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.runService.Running() {
		http.Error(w, "A run is already in progress", http.StatusConflict)
		return
	}

	go func() {
		report, err := h.runService.Run(context.Background())
		if errors.Is(err, service.ErrRunInProgress) {
			return
		}
		if err != nil {
			log.Printf("ERROR [RunHandler.Trigger] run failed: %v", err)
			return
		}
		log.Printf("run %s finished: %d events processed, %d bouts written",
			report.RunID, report.EventsProcessed, report.BoutsWritten)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

func (h *RunHandler) Latest(w http.ResponseWriter, r *http.Request) {
	report := h.runService.LastReport()
	if report == nil {
		http.Error(w, "No completed runs yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (h *RunHandler) Gaps(w http.ResponseWriter, r *http.Request) {
	gaps, err := h.runService.Gaps(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if gaps == nil {
		gaps = []domain.Gap{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gaps)
}

func (h *RunHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.competitionService.OpenConflicts(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conflicts)
}

// IngestFragment accepts one raw results payload directly, bypassing the
// fetcher. Used for manual backfills and operator corrections.
func (h *RunHandler) IngestFragment(w http.ResponseWriter, r *http.Request) {
	var raw domain.RawFragment
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.ingestService.IngestFragment(r.Context(), &raw)
	if err != nil {
		log.Printf("ERROR [RunHandler.IngestFragment] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outcome)
}
