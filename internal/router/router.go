package router

import (
	"log"
	"net/http"

	"github.com/dinehub/restaurant-api/internal/config"
	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/handler"
	mw "github.com/dinehub/restaurant-api/internal/middleware"
	"github.com/dinehub/restaurant-api/internal/pricing"
	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/dinehub/restaurant-api/internal/storage"
	"github.com/dinehub/restaurant-api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up under /api.
// statsCache may be nil, in which case statistics are computed on every call.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, blobs *storage.LocalStore, statsCache service.StatsCache) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Uploaded food images are public; payment receipts need an admin token.
	r.Handle("/uploads/"+storage.FoodImageFolder+"/*", uploads(blobs, storage.FoodImageFolder))
	r.With(mw.Authenticate(cfg.JWTSecret)).Handle("/uploads/"+storage.ReceiptFolder+"/*", uploads(blobs, storage.ReceiptFolder))

	// Services
	catalog := service.NewCatalogService(pool, func(db database.DBTX) service.CatalogStore {
		return database.New(db)
	}, blobs)
	checkout := service.NewCheckoutService(pool, func(db database.DBTX) service.CheckoutStore {
		return database.New(db)
	}, blobs, pricingConfig(cfg))
	orders := service.NewOrderService(queries, blobs, cfg.Location)
	stats := service.NewStatisticsService(queries, statsCache, cfg.TimeZone)
	events := handler.NewOrderPublisher(hub, stats)

	branchHandler := handler.NewBranchHandler(queries, catalog, cfg.StorefrontURL)
	categoryHandler := handler.NewCategoryHandler(queries, catalog)
	subcategoryHandler := handler.NewSubcategoryHandler(queries, catalog)
	foodItemHandler := handler.NewFoodItemHandler(queries, catalog)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		handler.NewAuthHandler(queries, cfg.JWTSecret).RegisterRoutes(r)
		r.Route("/cart", handler.NewCartHandler(pricingConfig(cfg)).RegisterRoutes)
		r.Route("/checkout", handler.NewCheckoutHandler(checkout, events).RegisterRoutes)

		// WebSocket route (handles auth internally via query param)
		r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWS(hub, cfg.JWTSecret, w, r)
		})

		r.Route("/branches", func(r chi.Router) {
			branchHandler.RegisterPublicRoutes(r)
			r.With(mw.Authenticate(cfg.JWTSecret)).Group(branchHandler.RegisterAdminRoutes)
		})
		r.Route("/categories", func(r chi.Router) {
			categoryHandler.RegisterPublicRoutes(r)
			r.With(mw.Authenticate(cfg.JWTSecret)).Group(categoryHandler.RegisterAdminRoutes)
		})
		r.Route("/subcategories", func(r chi.Router) {
			subcategoryHandler.RegisterPublicRoutes(r)
			r.With(mw.Authenticate(cfg.JWTSecret)).Group(subcategoryHandler.RegisterAdminRoutes)
		})
		r.Route("/fooditems", func(r chi.Router) {
			foodItemHandler.RegisterPublicRoutes(r)
			r.With(mw.Authenticate(cfg.JWTSecret)).Group(foodItemHandler.RegisterAdminRoutes)
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))

			r.Route("/orders", handler.NewOrderHandler(orders, events).RegisterRoutes)
			r.Route("/statistics", handler.NewStatisticsHandler(stats).RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}

func pricingConfig(cfg *config.Config) pricing.Config {
	return pricing.Config{
		TaxRate:     cfg.Pricing.TaxRate,
		DeliveryFee: cfg.Pricing.DeliveryFee,
		Discount:    cfg.Pricing.FlatDiscount,
	}
}

func uploads(blobs *storage.LocalStore, folder string) http.Handler {
	return http.StripPrefix("/uploads/"+folder, blobs.FileServer(folder))
}
