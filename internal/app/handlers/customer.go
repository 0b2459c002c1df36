package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/galaydia/marketplace/internal/service"
)

// UpdateCustomerRequest edits profile fields only; deactivation is a
// separate endpoint so the two operations cannot be confused.
type UpdateCustomerRequest struct {
	Address     string `json:"address" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,max=25"`
}

func CustomerListHandler(log *slog.Logger, svc service.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CustomerListHandler"
		logger := log.With(slog.String("op", op))

		customers, err := svc.ListCustomers(r.Context())
		if err != nil {
			logger.Error("failed to list customers", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, customers)
	}
}

func CustomerGetHandler(log *slog.Logger, svc service.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CustomerGetHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid customer id")
			return
		}

		customer, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			logger.Error("failed to get customer", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, customer)
	}
}

func CustomerUpdateHandler(log *slog.Logger, svc service.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CustomerUpdateHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid customer id")
			return
		}

		var req UpdateCustomerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusUnprocessableEntity, "validation error")
			return
		}

		if err := svc.UpdateCustomerProfile(r.Context(), id, req.Address, req.PhoneNumber); err != nil {
			logger.Error("failed to update customer", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CustomerDeactivateHandler handles POST /customers/{id}/deactivate by
// flipping the linked user's active flag; the customer row stays intact.
func CustomerDeactivateHandler(log *slog.Logger, svc service.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CustomerDeactivateHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid customer id")
			return
		}

		if err := svc.DeactivateCustomer(r.Context(), id); err != nil {
			logger.Error("failed to deactivate customer", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
