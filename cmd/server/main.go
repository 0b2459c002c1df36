package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/galaydia/marketplace/internal/app"
	"github.com/galaydia/marketplace/internal/app/handlers"
	"github.com/galaydia/marketplace/internal/config"
	"github.com/galaydia/marketplace/internal/lib/logger"
	"github.com/galaydia/marketplace/internal/lib/logger/handlers/urllog"
	"github.com/galaydia/marketplace/internal/lib/ratelimit"
	"github.com/galaydia/marketplace/internal/security/jwtmiddleware"
	"github.com/galaydia/marketplace/internal/service"
	"github.com/galaydia/marketplace/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware)

	userRepo := storage.NewUserRepository(application.DB)
	customerRepo := storage.NewCustomerRepository(application.DB)
	productTypeRepo := storage.NewProductTypeRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	paymentTypeRepo := storage.NewPaymentTypeRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	orderItemRepo := storage.NewOrderProductRepository(application.DB)

	tokenTTL := time.Duration(application.Config.JWT.TokenTTL) * time.Minute
	authService := service.NewAuthService(log, application.DB, userRepo, customerRepo, tokenTTL)
	cartService := service.NewCartService(log, application.DB, customerRepo, productRepo, orderRepo, orderItemRepo, paymentTypeRepo)
	productService := service.NewProductService(log, customerRepo, productRepo, productTypeRepo)
	productTypeService := service.NewProductTypeService(log, productTypeRepo)
	paymentTypeService := service.NewPaymentTypeService(log, customerRepo, paymentTypeRepo)
	customerService := service.NewCustomerService(log, customerRepo, userRepo)
	orderProductService := service.NewOrderProductService(log, orderItemRepo)

	router.Post("/register", handlers.RegisterHandler(log, authService))
	router.Post("/login", handlers.LoginHandler(log, authService))
	router.Post("/api-token-auth/", handlers.LoginHandler(log, authService))

	// public catalog browsing
	router.Get("/products", handlers.ProductListHandler(log, productService))
	router.Get("/products/{id}", handlers.ProductGetHandler(log, productService))
	router.Get("/producttypes", handlers.ProductTypeListHandler(log, productTypeService))
	router.Get("/producttypes/{id}", handlers.ProductTypeGetHandler(log, productTypeService))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)

		r.Post("/products", handlers.ProductCreateHandler(log, productService))
		r.Put("/products/{id}", handlers.ProductUpdateHandler(log, productService))
		r.Delete("/products/{id}", handlers.ProductDeleteHandler(log, productService))

		r.Post("/producttypes", handlers.ProductTypeCreateHandler(log, productTypeService))
		r.Put("/producttypes/{id}", handlers.ProductTypeUpdateHandler(log, productTypeService))
		r.Delete("/producttypes/{id}", handlers.ProductTypeDeleteHandler(log, productTypeService))

		r.Get("/paymenttypes", handlers.PaymentTypeListHandler(log, paymentTypeService))
		r.Get("/paymenttypes/{id}", handlers.PaymentTypeGetHandler(log, paymentTypeService))
		r.Post("/paymenttypes", handlers.PaymentTypeCreateHandler(log, paymentTypeService))
		r.Put("/paymenttypes/{id}", handlers.PaymentTypeUpdateHandler(log, paymentTypeService))
		r.Delete("/paymenttypes/{id}", handlers.PaymentTypeDeleteHandler(log, paymentTypeService))

		r.Get("/customers", handlers.CustomerListHandler(log, customerService))
		r.Get("/customers/{id}", handlers.CustomerGetHandler(log, customerService))
		r.Put("/customers/{id}", handlers.CustomerUpdateHandler(log, customerService))
		r.Post("/customers/{id}/deactivate", handlers.CustomerDeactivateHandler(log, customerService))

		// cart/order lifecycle; the open order is the caller's cart
		r.Get("/orders", handlers.OrdersListHandler(log, cartService))
		r.Get("/orders/current", handlers.CurrentOrderHandler(log, cartService))
		r.Get("/orders/completed", handlers.CompletedOrdersHandler(log, cartService))
		r.Get("/orders/cart", handlers.CartContentsHandler(log, cartService))
		r.Get("/orders/{id}", handlers.OrderGetHandler(log, cartService))
		r.Delete("/orders/cart", handlers.RemoveFromCartHandler(log, cartService))
		r.Post("/orders", handlers.AddToCartHandler(log, cartService))
		r.Put("/orders/{id}", handlers.CompleteOrderHandler(log, cartService))
		r.Delete("/orders/{id}", handlers.OrderDeleteHandler(log, cartService))

		r.Get("/orderproducts", handlers.OrderProductListHandler(log, orderProductService))
		r.Get("/orderproducts/{id}", handlers.OrderProductGetHandler(log, orderProductService))
		r.Delete("/orderproducts/{id}", handlers.OrderProductDeleteHandler(log, orderProductService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
