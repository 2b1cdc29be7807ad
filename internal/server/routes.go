package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"github.com/tasktrack/tasktrack-go/internal/config"
	"github.com/tasktrack/tasktrack-go/internal/crypto"
	"github.com/tasktrack/tasktrack-go/internal/handler"
	"github.com/tasktrack/tasktrack-go/internal/middleware"
	"github.com/tasktrack/tasktrack-go/internal/repository"
	"github.com/tasktrack/tasktrack-go/internal/service"
)

// NewRouter wires repositories, services and handlers on top of db and
// returns the HTTP handler for the whole API.
func NewRouter(cfg config.Config, db *sqlx.DB) http.Handler {
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	hasher := crypto.NewPasswordHasher(cfg.HashScheme, cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, hasher, cfg.JWTSecret, cfg.JWTExpiry)
	todoService := service.NewTodoService(todoRepo, userRepo)

	authHandler := handler.NewAuthHandler(authService)
	todoHandler := handler.NewTodoHandler(todoService)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler.HandleHealth)

	r.Post("/register", authHandler.HandleRegister)
	r.Post("/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/me", authHandler.HandleMe)

		r.Post("/create", todoHandler.HandleCreate)
		r.Get("/get-all", todoHandler.HandleList)
		r.Put("/update/{id}", todoHandler.HandleToggle)
		r.Delete("/delete/{id}", todoHandler.HandleDelete)
	})

	return r
}
