package handlers

import (
	"encoding/json"
	stderrors "errors"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/services"
	"net/http"
)

// LookupHandler exposes the lookup orchestration endpoint consumed by the
// Telegram bot.
type LookupHandler struct {
	lookupService services.LookupService
}

func NewLookupHandler(lookupService services.LookupService) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
	}
}

type lookupRequest struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Service  string `json:"service"`
	IMEI     string `json:"imei"`
}

func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing JSON data")
		return
	}
	if req.UserID == 0 || req.Service == "" || req.IMEI == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: user_id, service, imei")
		return
	}

	result, err := h.lookupService.Lookup(r.Context(), services.LookupRequest{
		TelegramID:  req.UserID,
		Username:    req.Username,
		ServiceCode: req.Service,
		IMEI:        req.IMEI,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrServiceNotFound):
			respondWithError(w, http.StatusNotFound, "Service not found")
		case stderrors.Is(err, errors.ErrQuotaExhausted):
			respondWithError(w, http.StatusForbidden, "No free calls left")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	// A provider-level failure is a business outcome: the caller gets a 200
	// with an error body, mirroring how the bot consumes results.
	if !result.Success {
		respondWithError(w, http.StatusOK, result.ErrorMessage)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result.Payload)
}
