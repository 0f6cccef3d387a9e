package handlers

import (
	stderrors "errors"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/repository"
	"net/http"
)

type UsageHandler struct {
	usageRepo repository.UsageRepository
}

func NewUsageHandler(usageRepo repository.UsageRepository) *UsageHandler {
	return &UsageHandler{
		usageRepo: usageRepo,
	}
}

func (h *UsageHandler) ListUsages(w http.ResponseWriter, r *http.Request) {
	usages, err := h.usageRepo.ListRecent(r.Context(), 500)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, usages)
}

func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	usage, err := h.usageRepo.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Usage not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, usage)
}

func (h *UsageHandler) ListAccountUsages(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	usages, err := h.usageRepo.ListByAccount(r.Context(), id, 500)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, usages)
}
