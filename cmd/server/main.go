package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marinav/edquest/internal/api"
	"github.com/marinav/edquest/internal/config"
	"github.com/marinav/edquest/internal/db"
	"github.com/marinav/edquest/internal/gamification"
	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/repository/sqlite"
	"github.com/marinav/edquest/internal/rewards"
	"github.com/marinav/edquest/internal/services"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Default().Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("EdQuest Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("token_ttl_hours=%d", cfg.TokenTTLHours)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	userRepo := sqlite.NewUserRepository(database.DB)
	courseRepo := sqlite.NewCourseRepository(database.DB)
	quizRepo := sqlite.NewQuizRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	rewardRepo := sqlite.NewRewardRepository(database.DB)

	registry := rewards.NewRegistry()
	locks := gamification.NewLocks()

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	courseService := services.NewCourseService(courseRepo, userRepo, rewardRepo, registry, locks)
	quizService := services.NewQuizService(quizRepo)
	attemptService := services.NewAttemptService(attemptRepo, quizRepo, courseRepo, userRepo, rewardRepo, registry, locks)
	rewardService := services.NewRewardService(rewardRepo, userRepo, locks)

	srv := &api.Server{
		AuthService:    authService,
		CourseService:  courseService,
		QuizService:    quizService,
		AttemptService: attemptService,
		RewardService:  rewardService,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("EdQuest Server Stopped")
	log.Info("===========================================")
}
