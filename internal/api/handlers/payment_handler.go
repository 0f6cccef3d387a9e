package handlers

import (
	"encoding/json"
	stderrors "errors"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/repository"
	"net/http"
)

type PaymentHandler struct {
	paymentRepo repository.PaymentRepository
}

func NewPaymentHandler(paymentRepo repository.PaymentRepository) *PaymentHandler {
	return &PaymentHandler{
		paymentRepo: paymentRepo,
	}
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentRepo.List(r.Context(), 200)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}

type createPaymentRequest struct {
	AccountID *uint    `json:"user_id"`
	Amount    *float64 `json:"amount"`
	Method    *string  `json:"method"`
	Note      string   `json:"note"`
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing JSON data")
		return
	}
	if req.Amount == nil || req.Method == nil {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: amount, method")
		return
	}

	payment := &models.Payment{
		AccountID: req.AccountID,
		Amount:    *req.Amount,
		Method:    *req.Method,
		Note:      req.Note,
	}
	if err := h.paymentRepo.Create(r.Context(), payment); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Payment created",
		"payment": payment,
	})
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	payment, err := h.paymentRepo.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Payment not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.paymentRepo.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Payment not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Payment deleted"})
}

func (h *PaymentHandler) ListAccountPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	payments, err := h.paymentRepo.ListByAccount(r.Context(), id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}
