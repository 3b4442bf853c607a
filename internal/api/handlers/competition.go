package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/service"
)

type CompetitionHandler struct {
	competitionService *service.CompetitionService
}

func NewCompetitionHandler(competitionService *service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{competitionService: competitionService}
}

func (h *CompetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	comps, err := h.competitionService.List(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comps)
}

func (h *CompetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	compKey := chi.URLParam(r, "compKey")
	comp, err := h.competitionService.GetByKey(r.Context(), compKey)
	if err != nil {
		if errors.Is(err, domain.ErrCompetitionNotFound) {
			http.Error(w, "Competition not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comp)
}

func (h *CompetitionHandler) Events(w http.ResponseWriter, r *http.Request) {
	compKey := chi.URLParam(r, "compKey")
	events, err := h.competitionService.Events(r.Context(), compKey)
	if err != nil {
		if errors.Is(err, domain.ErrCompetitionNotFound) {
			http.Error(w, "Competition not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func (h *CompetitionHandler) EventBouts(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}
	bouts, err := h.competitionService.EventBouts(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bouts)
}

func (h *CompetitionHandler) EventRankings(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}
	rankings, err := h.competitionService.EventRankings(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rankings)
}

func (h *CompetitionHandler) EventRecord(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}
	record, err := h.competitionService.EventRecord(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}
