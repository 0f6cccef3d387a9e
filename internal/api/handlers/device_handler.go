package handlers

import (
	"encoding/json"
	stderrors "errors"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/repository"
	"net/http"
)

type DeviceHandler struct {
	deviceRepo repository.DeviceRepository
}

func NewDeviceHandler(deviceRepo repository.DeviceRepository) *DeviceHandler {
	return &DeviceHandler{
		deviceRepo: deviceRepo,
	}
}

func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceRepo.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, devices)
}

type createDeviceRequest struct {
	AccountID uint   `json:"user_id"`
	IMEI      string `json:"imei"`
	Serial    string `json:"serial"`
	Note      string `json:"note"`
}

func (h *DeviceHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing JSON data")
		return
	}
	if req.AccountID == 0 || req.IMEI == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: user_id, imei")
		return
	}

	device := &models.DeviceRecord{
		AccountID: req.AccountID,
		IMEI:      req.IMEI,
		Serial:    req.Serial,
		Note:      req.Note,
	}
	if err := h.deviceRepo.Create(r.Context(), device); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Device created",
		"device":  device,
	})
}

func (h *DeviceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	device, err := h.deviceRepo.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Device not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, device)
}

type updateDeviceRequest struct {
	IMEI   *string `json:"imei"`
	Serial *string `json:"serial"`
	Note   *string `json:"note"`
}

func (h *DeviceHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing JSON data")
		return
	}

	device, err := h.deviceRepo.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Device not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.IMEI != nil {
		device.IMEI = *req.IMEI
	}
	if req.Serial != nil {
		device.Serial = *req.Serial
	}
	if req.Note != nil {
		device.Note = *req.Note
	}

	if err := h.deviceRepo.Update(r.Context(), device); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Device updated",
		"device":  device,
	})
}

func (h *DeviceHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.deviceRepo.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Device not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Device deleted"})
}
