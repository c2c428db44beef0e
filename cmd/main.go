// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"go_5_read_keep/internal/clock"
	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/handlers"
	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"
	"go_5_read_keep/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	// リポジトリルートから `go run ./cmd` で起動する前提 (scripts/seed.go と同じ)
	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	log.Println("Log Config Loaded...")

	slog.SetDefault(logger)
	slog.Info("Application starting...")

	// Database Connection (GORM)
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// スキーマ反映
	if err := db.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.StudentBook{},
		&model.Assignment{},
		&model.Recap{},
		&model.Streak{},
		&model.BonusTransaction{},
		&model.Goal{},
		&model.ActionLog{},
	); err != nil {
		slog.Error("Error migrating database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency Injection
	clk := clock.System()

	userRepo := repository.NewGormUserRepository()
	bookRepo := repository.NewGormBookRepository()
	studentBookRepo := repository.NewGormStudentBookRepository()
	assignmentRepo := repository.NewGormAssignmentRepository()
	recapRepo := repository.NewGormRecapRepository()
	streakRepo := repository.NewGormStreakRepository()
	bonusRepo := repository.NewGormBonusRepository()
	goalRepo := repository.NewGormGoalRepository()
	actionLogRepo := repository.NewGormActionLogRepository()

	notifier := service.NewNotifier(&config.Cfg)

	authService := service.NewAuthService(db, userRepo, &config.Cfg, clk)
	bookService := service.NewBookService(db, bookRepo)
	studentBookService := service.NewStudentBookService(db, studentBookRepo, bookRepo, userRepo, clk)
	streakService := service.NewStreakService(db, studentBookRepo, assignmentRepo, streakRepo, &config.Cfg, clk)
	bonusService := service.NewBonusService(db, bonusRepo, goalRepo, clk)
	goalService := service.NewGoalService(db, goalRepo)
	assignmentService := service.NewAssignmentService(db, assignmentRepo, studentBookRepo, recapRepo, userRepo, bonusService, streakService, notifier, &config.Cfg, clk)
	actionLogService := service.NewActionLogService(db, actionLogRepo)

	authHandler := handlers.NewAuthHandler(authService, logger)
	bookHandler := handlers.NewBookHandler(bookService, logger)
	studentBookHandler := handlers.NewStudentBookHandler(studentBookService, authService, &config.Cfg, logger)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, studentBookService, logger)
	streakHandler := handlers.NewStreakHandler(streakService, authService, &config.Cfg, logger)
	bonusHandler := handlers.NewBonusHandler(bonusService, logger)
	goalHandler := handlers.NewGoalHandler(goalService, logger)
	actionLogHandler := handlers.NewActionLogHandler(actionLogService, logger)

	// Setup Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/login", authHandler.Login)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuthMiddleware(&config.Cfg))

			r.Get("/auth/me", authHandler.GetMe)

			r.Route("/books", func(r chi.Router) {
				r.Get("/", bookHandler.GetBooks)
				r.Get("/{book_id}", bookHandler.GetBook)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireMentor)
					r.Post("/", bookHandler.PostBook)
					r.Put("/{book_id}", bookHandler.PutBook)
				})
			})

			r.Route("/student-books", func(r chi.Router) {
				r.Get("/{student_book_id}/assignments", assignmentHandler.GetAssignments)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireMentor)
					r.Post("/", studentBookHandler.AssignBook)
					r.Post("/{student_book_id}/finish", studentBookHandler.FinishBook)
					r.Post("/{student_book_id}/pause", studentBookHandler.PauseBook)
					r.Post("/{student_book_id}/resume", studentBookHandler.ResumeBook)
					r.Post("/{student_book_id}/assignments", assignmentHandler.PostAssignment)
					r.Post("/{student_book_id}/plan", assignmentHandler.GeneratePlan)
				})
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", assignmentHandler.GetMyAssignments)
				r.Post("/{assignment_id}/submit", assignmentHandler.SubmitAssignment)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireMentor)
					r.Patch("/{assignment_id}", assignmentHandler.PatchAssignment)
					r.Post("/{assignment_id}/grade", assignmentHandler.GradeAssignment)
				})
			})

			r.Route("/students/{student_id}", func(r chi.Router) {
				r.Get("/student-books", studentBookHandler.GetStudentBooks)
				r.Get("/streak", streakHandler.GetStreak)
				r.Get("/bonus", bonusHandler.GetBonus)
				r.Get("/goals", goalHandler.GetGoals)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireMentor)
					r.Post("/bonus", bonusHandler.PostManualBonus)
					r.Post("/bonus/reset", bonusHandler.PostBonusReset)
					r.Post("/goals", goalHandler.PostGoal)
				})
			})

			r.With(middleware.RequireMentor).Post("/goals/{goal_id}/cancel", goalHandler.CancelGoal)

			r.Post("/logs", actionLogHandler.PostLog)
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
