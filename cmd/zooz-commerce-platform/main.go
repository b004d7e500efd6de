package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/api/handlers"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/api/middleware"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/cache"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/config"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/health"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/metrics"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	service "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/services"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/pkg/sendgrid"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/pkg/stripe"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/pkg/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), "zooz-commerce-platform", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		slog.Error("❌ Error setting up tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	userService := service.NewUserService(repos.User, rateLimitRepo, &cfg.Security)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, productCache, &cfg.Cache)
	productHandler := handlers.NewProductHandler(productService)
	catalogService := service.NewCatalogService(repos.Category, repos.Brand)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Product, repos.User, emailService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentService := service.NewPaymentService(stripeClient, repos.Cart, repos.Product, repos.Order, &cfg.Stripe)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationService := service.NewNotificationService(repos.Notification)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	blogService := service.NewBlogService(repos.Blog)
	blogHandler := handlers.NewBlogHandler(blogService)
	contactService := service.NewContactService(repos.Contact, repos.Notification, repos.User, emailService, &cfg.SendGrid)
	contactHandler := handlers.NewContactHandler(contactService)
	subscriberService := service.NewSubscriberService(repos.Subscriber, emailService)
	subscriberHandler := handlers.NewSubscriberHandler(subscriberService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg, stripeClient)
	if err != nil {
		slog.Error("❌ Error setting up health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.RequireAdmin(productHandler.CreateProduct()))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/products/slug/{slug}", productHandler.GetProductBySlug())
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.RequireAdmin(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.RequireAdmin(productHandler.DeleteProduct()))

	routerMux.HandleFunc("POST /api/v1/categories", authMiddleware.RequireAdmin(catalogHandler.CreateCategory()))
	routerMux.HandleFunc("GET /api/v1/categories", catalogHandler.ListCategories())
	routerMux.HandleFunc("PUT /api/v1/categories/{id}", authMiddleware.RequireAdmin(catalogHandler.UpdateCategory()))
	routerMux.HandleFunc("DELETE /api/v1/categories/{id}", authMiddleware.RequireAdmin(catalogHandler.DeleteCategory()))
	routerMux.HandleFunc("POST /api/v1/brands", authMiddleware.RequireAdmin(catalogHandler.CreateBrand()))
	routerMux.HandleFunc("GET /api/v1/brands", catalogHandler.ListBrands())
	routerMux.HandleFunc("PUT /api/v1/brands/{id}", authMiddleware.RequireAdmin(catalogHandler.UpdateBrand()))
	routerMux.HandleFunc("DELETE /api/v1/brands/{id}", authMiddleware.RequireAdmin(catalogHandler.DeleteBrand()))

	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/carts", authMiddleware.Authenticate(cartHandler.ClearCart()))

	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/tracking", authMiddleware.RequireAdmin(orderHandler.UpdateTracking()))

	routerMux.HandleFunc("POST /api/v1/payments", authMiddleware.Authenticate(paymentHandler.CreatePaymentIntent()))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleStripeWebhook())

	routerMux.HandleFunc("GET /api/v1/notifications", authMiddleware.Authenticate(notificationHandler.ListNotifications()))
	routerMux.HandleFunc("PATCH /api/v1/notifications/{id}/read", authMiddleware.Authenticate(notificationHandler.MarkRead()))

	routerMux.HandleFunc("POST /api/v1/blog", authMiddleware.RequireAdmin(blogHandler.CreatePost()))
	routerMux.HandleFunc("GET /api/v1/blog", blogHandler.ListPosts())
	routerMux.HandleFunc("GET /api/v1/blog/{slug}", blogHandler.GetPost())
	routerMux.HandleFunc("PUT /api/v1/blog/{slug}", authMiddleware.RequireAdmin(blogHandler.UpdatePost()))
	routerMux.HandleFunc("DELETE /api/v1/blog/{id}", authMiddleware.RequireAdmin(blogHandler.DeletePost()))

	routerMux.HandleFunc("POST /api/v1/contact", contactHandler.SubmitMessage())
	routerMux.HandleFunc("GET /api/v1/contact", authMiddleware.RequireAdmin(contactHandler.ListMessages()))

	routerMux.HandleFunc("POST /api/v1/subscribers", subscriberHandler.Subscribe())
	routerMux.HandleFunc("DELETE /api/v1/subscribers", subscriberHandler.Unsubscribe())
	routerMux.HandleFunc("GET /api/v1/subscribers", authMiddleware.RequireAdmin(subscriberHandler.ListSubscribers()))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "http.server")

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
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}
}
