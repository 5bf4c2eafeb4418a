package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/username/finsight/backend/src/config"
	"github.com/username/finsight/backend/src/database"
	"github.com/username/finsight/backend/src/handlers"
	"github.com/username/finsight/backend/src/logger"
	"github.com/username/finsight/backend/src/security"
	"github.com/username/finsight/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter *rate.Limiter

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			config.Cfg.CORSAllowedOrigin: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("FinSight backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	limiter = rate.NewLimiter(rate.Limit(config.Cfg.RateLimitPerSecond), config.Cfg.RateLimitBurst)

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	portfolioService := services.NewPortfolioService(database.DB)
	planService := services.NewPlanService(config.Cfg.PlanCacheTTL, config.Cfg.PlanCacheSweepEvery)

	userHandler := handlers.NewUserHandler(authService)
	planHandler := handlers.NewPlanHandler(planService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	rebalanceHandler := handlers.NewRebalanceHandler(portfolioService, planService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	apiRouter.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	apiRouter.HandleFunc("POST /api/auth/refresh", userHandler.RefreshTokenHandler)
	apiRouter.Handle("POST /api/auth/logout", userHandler.AuthMiddleware(http.HandlerFunc(userHandler.LogoutUserHandler)))

	applyAuth := func(handler http.HandlerFunc) http.Handler {
		return userHandler.AuthMiddleware(handler)
	}

	apiRouter.Handle("POST /api/portfolio/plan", applyAuth(planHandler.HandleBuildPlan))
	apiRouter.Handle("GET /api/portfolio/plan", applyAuth(planHandler.HandleGetPlan))
	apiRouter.Handle("POST /api/portfolio/plan/tune", applyAuth(planHandler.HandleTunePlan))
	apiRouter.Handle("GET /api/holdings", applyAuth(portfolioHandler.HandleListHoldings))
	apiRouter.Handle("POST /api/holdings", applyAuth(portfolioHandler.HandleAddHolding))
	apiRouter.Handle("DELETE /api/holdings/{id}", applyAuth(portfolioHandler.HandleDeleteHolding))
	apiRouter.Handle("GET /api/portfolio/goals", applyAuth(portfolioHandler.HandleListGoals))
	apiRouter.Handle("POST /api/portfolio/goals", applyAuth(portfolioHandler.HandleAddGoal))
	apiRouter.Handle("DELETE /api/portfolio/goals/{id}", applyAuth(portfolioHandler.HandleDeleteGoal))
	apiRouter.Handle("GET /api/portfolio/constraints", applyAuth(portfolioHandler.HandleGetConstraints))
	apiRouter.Handle("PUT /api/portfolio/constraints", applyAuth(portfolioHandler.HandlePutConstraints))
	apiRouter.Handle("POST /api/portfolio/rebalance/propose", applyAuth(rebalanceHandler.HandlePropose))
	apiRouter.Handle("POST /api/portfolio/rebalance/drift", applyAuth(rebalanceHandler.HandleDrift))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "FinSight Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
