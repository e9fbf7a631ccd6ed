package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/metrics"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/realtime"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// Services bundles everything the router hands to its handlers.
type Services struct {
	System     *service.SystemService
	Market     *service.MarketService
	Watchlist  *service.WatchlistService
	Portfolio  *service.PortfolioService
	Alert      *service.AlertService
	Access     *service.AccessService
	Task       *service.TaskService
	Preference *service.PreferenceService
	Analysis   *service.AnalysisService
	Hub        *realtime.Hub
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(svc.Market, svc.Watchlist)
			r.Get("/assets", marketHandler.Assets)
			r.Get("/stats", marketHandler.Stats)
			r.Get("/status", marketHandler.Status)
			r.Post("/refresh", marketHandler.Refresh)
		})

		r.Route("/watchlist", func(r chi.Router) {
			watchlistHandler := handlers.NewWatchlistHandler(svc.Watchlist)
			r.Get("/", watchlistHandler.Watchlist)
			r.Get("/{assetId}", watchlistHandler.Contains)
			r.Post("/{assetId}/toggle", watchlistHandler.Toggle)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
			r.Get("/", portfolioHandler.Positions)
			r.Post("/", portfolioHandler.AddPosition)
			r.Get("/summary", portfolioHandler.Summary)
			r.Delete("/{assetId}", portfolioHandler.RemovePosition)
		})

		r.Route("/alerts", func(r chi.Router) {
			alertHandler := handlers.NewAlertHandler(svc.Alert)
			r.Get("/", alertHandler.Alerts)
			r.Post("/", alertHandler.CreateAlert)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", alertHandler.Alert)
				r.Delete("/", alertHandler.DeleteAlert)
			})
		})

		r.Route("/access", func(r chi.Router) {
			accessHandler := handlers.NewAccessHandler(svc.Access)
			r.Get("/", accessHandler.State)
			r.Post("/unlock", accessHandler.Unlock)
			r.Post("/payment", accessHandler.Payment)
		})

		r.Route("/tasks", func(r chi.Router) {
			taskHandler := handlers.NewTaskHandler(svc.Task)
			r.Get("/", taskHandler.Tasks)
			r.Post("/", taskHandler.CreateTask)
			r.Get("/stats", taskHandler.Stats)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", taskHandler.Task)
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
				r.Post("/toggle", taskHandler.ToggleTask)
			})
		})

		r.Route("/preferences", func(r chi.Router) {
			preferenceHandler := handlers.NewPreferenceHandler(svc.Preference)
			r.Get("/theme", preferenceHandler.Theme)
			r.Put("/theme", preferenceHandler.SetTheme)
		})

		r.Route("/analysis", func(r chi.Router) {
			analysisHandler := handlers.NewAnalysisHandler(svc.Analysis)
			r.Post("/", analysisHandler.StartAnalysis)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", analysisHandler.GetAnalysis)
				r.Delete("/", analysisHandler.CancelAnalysis)
			})
		})
	})

	r.Get("/ws", handlers.NewWebsocketHandler(svc.Hub, svc.Market, cfg.CORS.AllowedOrigins, log).Stream)
	r.Handle("/metrics", metrics.Handler())

	return r
}
