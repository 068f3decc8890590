package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/funroad/funroad-backend/config"
	"github.com/funroad/funroad-backend/internal/modules/auth"
	"github.com/funroad/funroad-backend/internal/modules/cart"
	"github.com/funroad/funroad-backend/internal/modules/category"
	"github.com/funroad/funroad-backend/internal/modules/checkout"
	"github.com/funroad/funroad-backend/internal/modules/entitlement"
	"github.com/funroad/funroad-backend/internal/modules/library"
	"github.com/funroad/funroad-backend/internal/modules/product"
	"github.com/funroad/funroad-backend/internal/modules/review"
	"github.com/funroad/funroad-backend/internal/modules/tenant"
	"github.com/funroad/funroad-backend/internal/modules/user"
	"github.com/funroad/funroad-backend/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading configuration from the environment")
	}

	cfg, err := config.Load(config.GetEnv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	jwtSecret := []byte(config.GetEnv("JWT_SECRET", "dev-secret"))

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(metrics.Middleware)
	router.Use(auth.Middleware(jwtSecret))
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// ── Payment gateway ─────────────────────────────────────
	gateway := checkout.NewStripeGateway(
		os.Getenv("STRIPE_SECRET_KEY"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
	)

	// ── Phase 1: Identity & Tenants ─────────────────────────
	userRepo := user.NewPostgresRepository(db)
	tenantRepo := tenant.NewPostgresRepository(db)
	userService := user.NewService(userRepo, tenantRepo, gateway)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userRepo, jwtSecret)
	auth.NewHandler(authService).RegisterRoutes(router)

	tenantService := tenant.NewService(tenantRepo)
	tenant.NewHandler(tenantService).RegisterRoutes(router)

	// ── Phase 2: Catalog ────────────────────────────────────
	categoryRepo := category.NewPostgresRepository(db)
	categoryService := category.NewService(categoryRepo)
	category.NewHandler(categoryService).RegisterRoutes(router)

	entitlementRepo := entitlement.NewPostgresRepository(db)
	entitlementService := entitlement.NewService(entitlementRepo)

	productRepo := product.NewPostgresRepository(db)
	reviewRepo := review.NewPostgresRepository(db)
	reviewService := review.NewService(reviewRepo, productRepo, entitlementService)
	review.NewHandler(reviewService).RegisterRoutes(router)

	productService := product.NewService(productRepo, categoryService, reviewService, entitlementService)
	product.NewHandler(productService, cfg.Catalog.DefaultPageLimit, cfg.Catalog.MaxPageLimit).RegisterRoutes(router)

	// ── Phase 3: Library ────────────────────────────────────
	libraryService := library.NewService(entitlementRepo, entitlementService, productRepo, reviewService)
	library.NewHandler(libraryService, cfg.Catalog.DefaultPageLimit).RegisterRoutes(router)

	// ── Phase 4: Cart & Checkout ────────────────────────────
	cart.NewHandler(func(deviceID string) cart.Store {
		return cart.NewFileStore(cfg.Cart.Dir, deviceID)
	}).RegisterRoutes(router)

	checkoutService := checkout.NewService(productRepo, tenantService, entitlementService, gateway, checkout.Config{
		CommissionRate: cfg.Checkout.CommissionRate,
		Currency:       cfg.Checkout.Currency,
		SuccessURL:     cfg.Checkout.SuccessURL,
		CancelURL:      cfg.Checkout.CancelURL,
	})
	checkout.NewHandler(checkoutService).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	fmt.Printf("Funroad API server starting on :%s\n", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, router))
}
