package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"photojay_admin/internal/handler"
	"photojay_admin/internal/httputil"
	"photojay_admin/internal/model"
	authmw "photojay_admin/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	AdminHandler        *handler.AdminHandler
	NotificationHandler *handler.NotificationHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(authmw.EchoRequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes - no authentication required
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Protected routes - require authentication
		r.Group(func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

			r.Get("/me", cfg.AuthHandler.Me)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", cfg.NotificationHandler.List)
				r.Get("/unread-count", cfg.NotificationHandler.GetUnreadCount)
				r.Put("/mark-all-read", cfg.NotificationHandler.MarkAllRead)
				r.Put("/{id}/read", cfg.NotificationHandler.MarkRead)
			})

			// Admin routes additionally require role=ADMIN
			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireRole(model.RoleAdmin))

				r.Get("/stats", cfg.AdminHandler.Stats)
				r.Get("/products", cfg.AdminHandler.All)
				r.Get("/products/pending", cfg.AdminHandler.Pending)
				r.Put("/products/{id}/moderate", cfg.AdminHandler.Moderate)
				r.Put("/products/{id}/toggle-vip", cfg.AdminHandler.ToggleVIP)
			})
		})
	})

	return r
}
