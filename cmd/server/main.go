package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/config"
	"github.com/stemsi/lexis/internal/database"
	"github.com/stemsi/lexis/internal/handler"
	"github.com/stemsi/lexis/internal/logger"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/router"
	"github.com/stemsi/lexis/internal/service"
	"github.com/stemsi/lexis/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("backend", string(cfg.Backend)).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Lexis")

	// ─── Initialize Validator ──────────────────────────────────────────
	v := validator.Setup()

	// ctx ends on SIGINT/SIGTERM and stops background work with the server.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Open Record Store ─────────────────────────────────────────────
	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer store.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	collegeService := service.NewCollegeService(store, v, model.DefaultPageSize, log)
	programService := service.NewProgramService(store, v, model.DefaultPageSize, log)
	studentService := service.NewStudentService(store, v, model.DefaultPageSize, log)

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		College: handler.NewCollegeHandler(collegeService, programService),
		Program: handler.NewProgramHandler(programService),
		Student: handler.NewStudentHandler(studentService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	<-ctx.Done()
	stop()
	log.Info().Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
