package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kartverse/storefront/internal/api/handlers"
	"github.com/kartverse/storefront/internal/api/middleware"
	"github.com/kartverse/storefront/internal/cache"
	"github.com/kartverse/storefront/internal/config"
	"github.com/kartverse/storefront/internal/health"
	"github.com/kartverse/storefront/internal/metrics"
	"github.com/kartverse/storefront/internal/pricing"
	repository "github.com/kartverse/storefront/internal/repositories"
	service "github.com/kartverse/storefront/internal/services"
	"github.com/kartverse/storefront/internal/telemetry"
	"github.com/kartverse/storefront/pkg/payments"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Telemetry)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg)
	sessionRepo := repository.NewCheckoutSessionRepo(redisCache)

	jwtKey := []byte(cfg.Security.JWTKey)
	gatewayClient := payments.NewClient(cfg.Gateway.APIKey, cfg.Gateway.WebhookSecret)

	rules := pricing.Rules{
		PlatformFee:           cfg.Pricing.PlatformFee,
		DeliveryFee:           cfg.Pricing.DeliveryFee,
		FreeDeliveryThreshold: cfg.Pricing.FreeDeliveryThreshold,
	}

	userService := service.NewUserService(repos.User, rateLimiter, jwtKey)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, redisCache, cfg.Cache.DefaultTTL)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product, sessionRepo, rules)
	cartHandler := handlers.NewCartHandler(cartService)
	addressService := service.NewAddressService(repos.Address, sessionRepo)
	addressHandler := handlers.NewAddressHandler(addressService)
	checkoutService := service.NewCheckoutService(sessionRepo)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Product, repos.Address,
		sessionRepo, gatewayClient, rules, cfg.Gateway.Currency, cfg.Gateway.Timeout)
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, gatewayClient)
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("GET /api/v1/products/home", productHandler.Home())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("GET /api/v1/cart/direct-buy/{productId}", authMiddleware.Authenticate(cartHandler.DirectBuy()))
	routerMux.HandleFunc("GET /api/v1/addresses", authMiddleware.Authenticate(addressHandler.ListAddresses()))
	routerMux.HandleFunc("POST /api/v1/addresses", authMiddleware.Authenticate(addressHandler.AddAddress()))
	routerMux.HandleFunc("PUT /api/v1/addresses", authMiddleware.Authenticate(addressHandler.EditAddress()))
	routerMux.HandleFunc("DELETE /api/v1/addresses/{id}", authMiddleware.Authenticate(addressHandler.DeleteAddress()))
	routerMux.HandleFunc("POST /api/v1/addresses/{id}/select", authMiddleware.Authenticate(addressHandler.SelectAddress()))
	routerMux.HandleFunc("GET /api/v1/checkout/session", authMiddleware.Authenticate(checkoutHandler.GetSession()))
	routerMux.HandleFunc("POST /api/v1/checkout/section/enter", authMiddleware.Authenticate(checkoutHandler.EnterSection()))
	routerMux.HandleFunc("POST /api/v1/checkout/section/leave", authMiddleware.Authenticate(checkoutHandler.LeaveSection()))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.PlaceOrder()))
	routerMux.HandleFunc("POST /api/v1/orders/verify", authMiddleware.Authenticate(orderHandler.VerifyOrder()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("POST /api/v1/orders/{id}/cancel", authMiddleware.Authenticate(orderHandler.CancelOrder()))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", orderHandler.HandlePaymentWebhook())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
