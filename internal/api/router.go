package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dferrans/itemstash-be/internal/api/handlers"
	"github.com/dferrans/itemstash-be/internal/auth"
	"github.com/dferrans/itemstash-be/internal/models"
	"github.com/dferrans/itemstash-be/internal/services"
	"github.com/dferrans/itemstash-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, itemService services.ItemServiceProvider, userService services.UserServiceProvider, eventService services.EventServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	itemHandler := handlers.NewItemHandler(itemService)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	systemHandler := handlers.NewSystemHandler()
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Public authentication endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())
			r.Get("/me", authHandler.GetMe)
		})
	})

	// Everything below requires an authenticated caller.
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware())

		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.List)
			r.Post("/", itemHandler.Create)
			r.With(auth.RequireRole(models.RoleAdmin)).Get("/all", itemHandler.GetAll)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", itemHandler.Get)
				r.Put("/", itemHandler.Update)
				r.Delete("/", itemHandler.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/", userHandler.List)
			r.Post("/{id}/role", userHandler.UpdateRole)
		})

		r.Route("/events", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/", eventHandler.GetRecent)
		})

		r.Route("/system", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/stats", systemHandler.GetStats)
		})

		// Activity feed websocket
		r.Get("/ws", wsHandler.Serve)
	})

	return r
}
