package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/divvyup/divvy/docs"
	"github.com/divvyup/divvy/internal/config"
	"github.com/divvyup/divvy/internal/database"
	"github.com/divvyup/divvy/internal/exchange"
	"github.com/divvyup/divvy/internal/expense"
	"github.com/divvyup/divvy/internal/expense/split"
	"github.com/divvyup/divvy/internal/member"
	"github.com/divvyup/divvy/internal/project"
	"github.com/divvyup/divvy/internal/settlement"
	mw "github.com/divvyup/divvy/pkg/middleware"
)

// @title           Divvy API
// @version         1.0
// @description     Shared-expense tracking with multi-currency settlement.
// @BasePath        /api/v1
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("connected to database")

	// Exchange-rate provider: warm it once at startup, then refresh on a
	// schedule so request paths only ever read the cached table.
	rates := exchange.NewProvider(exchange.NewHTTPFetcher(cfg.RatesURL), cfg.RatesTTL, log)
	if err := rates.Refresh(context.Background()); err != nil {
		log.Warn().Err(err).Msg("initial rate fetch failed, conversions fall back to identity")
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RatesRefreshCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := rates.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("scheduled rate refresh failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.RatesRefreshCron).Msg("invalid rate refresh schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Split strategy factory
	splitFactory := split.NewFactory()

	// Member feature
	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo, log)
	memberHandler := member.NewHandler(memberService)

	// Project feature
	projectRepo := project.NewRepository(db)
	projectService := project.NewService(projectRepo, rates, log)

	// Expense feature (with split factory injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, projectRepo, splitFactory, log)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement projections, mounted under the project tree
	settlementService := settlement.NewService(projectRepo, expenseRepo, rates, log)
	settlementHandler := settlement.NewHandler(settlementService)

	projectHandler := project.NewHandler(projectService, settlementHandler)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(mw.ActingMember)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/members", memberHandler.Routes())
		r.Mount("/projects", projectHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
