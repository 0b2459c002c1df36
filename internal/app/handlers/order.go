package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/galaydia/marketplace/internal/security/jwtmiddleware"
	"github.com/galaydia/marketplace/internal/service"
)

// AddToCartRequest adds one unit of a product to the caller's cart.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// CompleteOrderRequest attaches a payment type, closing the order.
type CompleteOrderRequest struct {
	PaymentTypeID int64 `json:"payment_type" validate:"required,gt=0"`
}

// RemoveFromCartRequest removes one unit of a product from the cart.
type RemoveFromCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// OrdersListHandler handles GET /orders. With ?cart=1 it returns only the
// caller's open order; otherwise all of the caller's orders.
func OrdersListHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrdersListHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		if r.URL.Query().Get("cart") != "" {
			order, err := cartService.GetCurrentOrder(r.Context(), userID)
			if err != nil {
				logger.Error("failed to get current order", slog.Any("error", err))
				writeServiceError(w, logger, err)
				return
			}
			writeJSON(w, logger, http.StatusOK, order)
			return
		}

		orders, err := cartService.ListOrders(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, orders)
	}
}

// OrderGetHandler handles GET /orders/{id}. Another customer's order is
// indistinguishable from a missing one.
func OrderGetHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderGetHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		orderID, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := cartService.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			logger.Error("failed to get order", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}

// CurrentOrderHandler handles GET /orders/current: the open order or 404.
func CurrentOrderHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CurrentOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		order, err := cartService.GetCurrentOrder(r.Context(), userID)
		if err != nil {
			logger.Error("failed to get current order", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}

// CompletedOrdersHandler handles GET /orders/completed.
func CompletedOrdersHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CompletedOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		orders, err := cartService.ListCompletedOrders(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list completed orders", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, orders)
	}
}

// CartContentsHandler handles GET /orders/cart: the products in the open
// order, one entry per line item.
func CartContentsHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CartContentsHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		products, err := cartService.ListCartContents(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list cart contents", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

// AddToCartHandler handles POST /orders. It creates the open order if the
// caller has none, then appends one line item for the product.
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req AddToCartRequest
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

		item, err := cartService.AddToCart(r.Context(), userID, req.ProductID)
		if err != nil {
			logger.Error("failed to add to cart", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusCreated, item)
	}
}

// CompleteOrderHandler handles PUT /orders/{id}: attaches the payment type
// and decrements inventory, answering 204 on success.
func CompleteOrderHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CompleteOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		orderID, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid order id")
			return
		}

		var req CompleteOrderRequest
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

		if err := cartService.CompleteOrder(r.Context(), userID, orderID, req.PaymentTypeID); err != nil {
			logger.Error("failed to complete order", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveFromCartHandler handles DELETE /orders/cart: removes one unit of
// the product from the caller's open order.
func RemoveFromCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveFromCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req RemoveFromCartRequest
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

		if err := cartService.RemoveFromCart(r.Context(), userID, req.ProductID); err != nil {
			logger.Error("failed to remove from cart", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// OrderDeleteHandler handles DELETE /orders/{id}; line items go with it.
func OrderDeleteHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderDeleteHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		orderID, err := idParam(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid order id")
			return
		}

		if err := cartService.DeleteOrder(r.Context(), userID, orderID); err != nil {
			logger.Error("failed to delete order", slog.Any("error", err))
			writeServiceError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
