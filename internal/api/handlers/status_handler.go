package handlers

import (
	"lookup-api/internal/logger"
	"lookup-api/internal/services"
	"net/http"

	"github.com/sirupsen/logrus"
)

type StatusHandler struct {
	statusService services.StatusService
}

func NewStatusHandler(statusService services.StatusService) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
	}
}

func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	report, err := h.statusService.GetStatus(r.Context())
	if err != nil {
		logger.LogEvent(logrus.ErrorLevel, "Failed to build status report", logrus.Fields{
			"error": err.Error(),
		})
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
