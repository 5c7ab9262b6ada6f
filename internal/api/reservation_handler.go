package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "vpark/internal/errors"

	"vpark/internal/auth"
	"vpark/internal/entities"
	"vpark/internal/repository"
	"vpark/internal/service"

	"github.com/gorilla/mux"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func (h *ReservationHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	rates := h.Service.Rates()
	writeJSON(w, http.StatusOK, rates)
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.ErrBadRequest("Invalid request body").Write(w)
		return
	}

	resp, err := h.Service.CheckAvailability(r.Context(), req.LevelNo, req.EntryTime, req.ExitTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReservationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.ErrBadRequest("Invalid request body").Write(w)
		return
	}

	quote, err := h.Service.Quote(req.VehicleType, req.EntryTime, req.ExitTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.ErrBadRequest("Invalid request body").Write(w)
		return
	}

	res, err := h.Service.CreateReservation(r.Context(), auth.UserID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListReservations(r.Context(), auth.UserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReservationHandler) PendingBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Service.PendingBills(r.Context(), auth.UserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *ReservationHandler) PayReservation(w http.ResponseWriter, r *http.Request) {
	id, err := reservationID(r)
	if err != nil {
		apperrors.ErrBadRequest("Invalid reservation id").Write(w)
		return
	}

	var card entities.CardDetails
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		apperrors.ErrBadRequest("Invalid request body").Write(w)
		return
	}

	receipt, err := h.Service.Pay(r.Context(), id, auth.UserID(r), card)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := reservationID(r)
	if err != nil {
		apperrors.ErrBadRequest("Invalid reservation id").Write(w)
		return
	}

	if err := h.Service.CancelReservation(r.Context(), id, auth.UserID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Reservation cancelled"})
}

func reservationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeServiceError maps engine and repository errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrUnknownLevel),
		errors.Is(err, service.ErrInvalidSlot),
		errors.Is(err, service.ErrInvalidCard):
		apperrors.ErrBadRequest(err.Error()).Write(w)
	case errors.Is(err, repository.ErrReservationNotFound):
		apperrors.ErrNotFound(err.Error()).Write(w)
	case errors.Is(err, repository.ErrSlotTaken),
		errors.Is(err, repository.ErrNotCancellable),
		errors.Is(err, repository.ErrAlreadyStarted),
		errors.Is(err, service.ErrNotPayable):
		apperrors.ErrConflict(err.Error()).Write(w)
	default:
		apperrors.ErrInternal("Internal error").Write(w)
	}
}
