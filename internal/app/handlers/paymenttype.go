package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/galaydia/marketplace/internal/security/jwtmiddleware"
	"github.com/galaydia/marketplace/internal/service"
)

// expirationDateLayout is the wire format for card expiration dates.
const expirationDateLayout = "2006-01-02"

// PaymentTypeRequest carries the stored-card fields; the owning customer is
// always the authenticated caller.
type PaymentTypeRequest struct {
	MerchantName   string `json:"merchant_name" validate:"required,max=50"`
	AccountNumber  string `json:"account_number" validate:"required,max=25"`
	ExpirationDate string `json:"expiration_date" validate:"required,datetime=2006-01-02"`
}

func PaymentTypeListHandler(log *slog.Logger, svc service.PaymentTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PaymentTypeListHandler"
		logger := log.With(slog.String("op", op))

		types, err := svc.ListPaymentTypes(r.Context())
		if err != nil {
			logger.Error("failed to list payment types", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, types)
	}
}

func PaymentTypeGetHandler(log *slog.Logger, svc service.PaymentTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PaymentTypeGetHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid payment type id")
			return
		}

		pt, err := svc.GetPaymentType(r.Context(), id)
		if err != nil {
			logger.Error("failed to get payment type", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, pt)
	}
}

func PaymentTypeCreateHandler(log *slog.Logger, svc service.PaymentTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PaymentTypeCreateHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		req, ok := decodePaymentTypeRequest(w, r, logger)
		if !ok {
			return
		}
		expiration, err := time.Parse(expirationDateLayout, req.ExpirationDate)
		if err != nil {
			logger.Error("invalid request: bad expiration date", slog.Any("error", err))
			writeError(w, logger, http.StatusUnprocessableEntity, "validation error")
			return
		}

		pt, err := svc.CreatePaymentType(r.Context(), userID, service.NewPaymentTypeInput{
			MerchantName:   req.MerchantName,
			AccountNumber:  req.AccountNumber,
			ExpirationDate: expiration,
		})
		if err != nil {
			logger.Error("failed to create payment type", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, pt)
	}
}

func PaymentTypeUpdateHandler(log *slog.Logger, svc service.PaymentTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PaymentTypeUpdateHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid payment type id")
			return
		}

		req, ok := decodePaymentTypeRequest(w, r, logger)
		if !ok {
			return
		}
		expiration, err := time.Parse(expirationDateLayout, req.ExpirationDate)
		if err != nil {
			logger.Error("invalid request: bad expiration date", slog.Any("error", err))
			writeError(w, logger, http.StatusUnprocessableEntity, "validation error")
			return
		}

		if err := svc.UpdatePaymentType(r.Context(), id, service.NewPaymentTypeInput{
			MerchantName:   req.MerchantName,
			AccountNumber:  req.AccountNumber,
			ExpirationDate: expiration,
		}); err != nil {
			logger.Error("failed to update payment type", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func PaymentTypeDeleteHandler(log *slog.Logger, svc service.PaymentTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PaymentTypeDeleteHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid payment type id")
			return
		}

		if err := svc.DeletePaymentType(r.Context(), id); err != nil {
			logger.Error("failed to delete payment type", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodePaymentTypeRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (PaymentTypeRequest, bool) {
	var req PaymentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("invalid request: decoding error", slog.Any("error", err))
		writeError(w, logger, http.StatusBadRequest, "invalid request")
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		logger.Error("invalid request: validation error", slog.Any("error", err))
		writeError(w, logger, http.StatusUnprocessableEntity, "validation error")
		return req, false
	}
	return req, true
}
