package handlers

import (
	"encoding/json"
	stderrors "errors"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/services"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type AccountHandler struct {
	accountService services.AccountService
}

func NewAccountHandler(accountService services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// GetProfile resolves an account by its chat-platform id, creating it on
// first contact. The bot calls this for the account menu.
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	telegramID, err := strconv.ParseInt(vars["telegram_id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	username := r.URL.Query().Get("username")

	account, err := h.accountService.ResolveOrCreate(r.Context(), telegramID, username)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, services.ProfileOf(account))
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	account, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

type accountUpdateRequest struct {
	Username   *string `json:"username"`
	Registered *bool   `json:"registered"`
	FreeCalls  *int    `json:"free_calls"`
	PaidCalls  *int    `json:"paid_calls"`
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req accountUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing JSON data")
		return
	}

	account, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Username != nil {
		account.Username = *req.Username
	}
	if req.Registered != nil {
		account.Registered = *req.Registered
	}
	if req.FreeCalls != nil {
		account.FreeCalls = *req.FreeCalls
	}
	if req.PaidCalls != nil {
		account.PaidCalls = *req.PaidCalls
	}

	if err := h.accountService.Update(r.Context(), account); err != nil {
		if stderrors.Is(err, errors.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, "Quotas must be non-negative")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User updated"})
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

type setQuotaRequest struct {
	FreeCalls int `json:"free_calls"`
}

// SetQuota is the administrative free-call override.
func (h *AccountHandler) SetQuota(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req setQuotaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing JSON data")
		return
	}

	if err := h.accountService.SetFreeCalls(r.Context(), id, req.FreeCalls); err != nil {
		switch {
		case stderrors.Is(err, errors.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "free_calls must be non-negative")
		case stderrors.Is(err, errors.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Quota updated"})
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
