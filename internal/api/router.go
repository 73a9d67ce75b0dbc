package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taskadder/taskadder-be/internal/api/handlers"
	"github.com/taskadder/taskadder-be/internal/auth"
	"github.com/taskadder/taskadder-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(tokens *auth.TokenService, userService services.UserServiceProvider, taskService services.TaskServiceProvider, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	taskHandler := handlers.NewTaskHandler(taskService)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Get("/me", userHandler.GetMe)
		})
	})

	// Every task route sits behind the auth gate.
	r.Route("/tasks", func(r chi.Router) {
		r.Use(tokens.Middleware())

		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.Get)
			r.Put("/", taskHandler.Update)
			r.Delete("/", taskHandler.Delete)
		})
	})

	return r
}
