package handlers

import (
	"encoding/json"
	stderrors "errors"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

type ServiceHandler struct {
	catalog services.CatalogService
}

func NewServiceHandler(catalog services.CatalogService) *ServiceHandler {
	return &ServiceHandler{
		catalog: catalog,
	}
}

func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

// ListGrouped returns the catalog keyed by group name, the shape the bot
// renders its service menu from.
func (h *ServiceHandler) ListGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.catalog.ListGrouped(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, groups)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	service, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, errors.ErrServiceNotFound) {
			respondWithError(w, http.StatusNotFound, "Service not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, service)
}

func (h *ServiceHandler) GetServiceByCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	service, err := h.catalog.GetByCode(r.Context(), code)
	if err != nil {
		if stderrors.Is(err, errors.ErrServiceNotFound) {
			respondWithError(w, http.StatusNotFound, "Service not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, service)
}

type createServiceRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Group           string `json:"group"`
	APIURL          string `json:"api_url"`
	APIKey          string `json:"api_key"`
	PreferredMethod string `json:"preferred_method"`
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing JSON data")
		return
	}
	if req.Code == "" || req.Name == "" || req.APIURL == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: code, name, api_url")
		return
	}

	service := &models.Service{
		Code:            req.Code,
		Name:            req.Name,
		Description:     req.Description,
		Group:           req.Group,
		APIURL:          req.APIURL,
		APIKey:          req.APIKey,
		IsPublic:        true,
		PreferredMethod: req.PreferredMethod,
	}

	if err := h.catalog.Create(r.Context(), service); err != nil {
		if stderrors.Is(err, errors.ErrDuplicateCode) {
			respondWithError(w, http.StatusBadRequest, "Service with this code already exists")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Service created",
		"service": service,
	})
}

func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var update services.ServiceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing JSON data")
		return
	}

	service, err := h.catalog.Update(r.Context(), id, update)
	if err != nil {
		if stderrors.Is(err, errors.ErrServiceNotFound) {
			respondWithError(w, http.StatusNotFound, "Service not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Service updated",
		"service": service,
	})
}

func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, errors.ErrServiceNotFound) {
			respondWithError(w, http.StatusNotFound, "Service not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Service deleted"})
}
