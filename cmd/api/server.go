package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"booklibrary/internal/auth"
	"booklibrary/internal/book"
	"booklibrary/internal/config"
	"booklibrary/internal/httpx"
	"booklibrary/internal/user"
)

// newServer wires services, handlers and the middleware stack over store.
func newServer(cfg *config.Config, logger *slog.Logger, store *storage, rateLimiter *httpx.RateLimitMiddleware) http.Handler {
	userService := user.NewService(store.users)
	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, userService, store.revocations)
	bookService := book.NewService(store.books)

	userHandler := user.NewHTTPHandler(userService)
	authHandler := auth.NewHTTPHandler(authService)
	bookHandler := book.NewHTTPHandler(bookService)

	protect := httpx.AuthMiddleware(auth.NewGate(cfg.JWTSecret, userService, store.revocations))

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := store.ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /api/auth/register", userHandler.RegisterUser)
	router.HandleFunc("POST /api/auth/login", authHandler.Login)
	router.Handle("GET /api/auth/me", protect(http.HandlerFunc(userHandler.GetCurrentUser)))
	router.Handle("POST /api/auth/logout", protect(http.HandlerFunc(authHandler.Logout)))

	bookHandler.Routes(router, protect)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(logger),
		httpx.AccessLogMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		rateLimiter.Middleware,
	)
}
