// projecthub is a JSON API providing user registration, JWT bearer
// authentication, and role-gated CRUD access to project records. This file
// wires configuration, the database pool, services, and the HTTP router,
// and runs the server with graceful shutdown.
//
// @title Projecthub API
// @version 1.0
// @description User registration, JWT authentication and role-gated project CRUD.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/projecthub-go/apperror"
	"github.com/user/projecthub-go/auth"
	"github.com/user/projecthub-go/config"
	"github.com/user/projecthub-go/db"
	_ "github.com/user/projecthub-go/docs" // generated Swagger spec
	"github.com/user/projecthub-go/projects"
	"github.com/user/projecthub-go/users"
)

func main() {
	// .env is a development convenience; in production the variables are
	// set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Services and handlers, wired together explicitly. The auth service is
	// also the token resolver used by the authentication middleware.
	userStore := auth.NewPostgresUserStore(pool)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	codec := auth.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authService := auth.NewService(userStore, hasher, codec)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewUserService(userStore)
	userHandlers := users.NewUserHandlers(userService)

	projectStore := projects.NewPostgresProjectStore(pool)
	projectService := projects.NewProjectService(projectStore)
	projectHandler := projects.NewProjectHandler(projectService)

	r := chi.NewRouter()

	// Global middleware. Chi requires all middleware to be registered
	// before any routes.
	if cfg.Server.Debug {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Outermost error boundary: any panic that escapes a handler becomes a
	// generic 500 with no internal detail.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Welcome to the Projecthub API"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public: registration and login.
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())

		// Everything below requires a valid bearer token; each request is
		// resolved against the store, so a deleted user is rejected even
		// with an unexpired token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(authService))

			r.Get("/me", userHandlers.HandleMe())
			r.With(auth.RequireAdmin).Get("/users", userHandlers.HandleListUsers())

			r.Route("/projects", func(r chi.Router) {
				projectHandler.RegisterRoutes(r)
			})
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware, kept here
// so the boundary does not depend on any handler package.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
