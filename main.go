package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ojosproject/iris-store/internal/commands"
	"github.com/ojosproject/iris-store/internal/config"
	"github.com/ojosproject/iris-store/internal/database"
	"github.com/ojosproject/iris-store/internal/logger"
	"github.com/ojosproject/iris-store/internal/repository"
	"github.com/ojosproject/iris-store/internal/server"
	"github.com/ojosproject/iris-store/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("failed to initialize logger", "error", err)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Fatal("failed to open database", "error", err)
	}
	logger.Info("database ready", "backend", cfg.DB.Backend)

	store := repository.NewStore(db)
	contactRepo := repository.NewContactRepository(store)
	medicationRepo := repository.NewMedicationRepository(store)
	logRepo := repository.NewMedicationLogRepository(store)
	instructionRepo := repository.NewCareInstructionRepository(store)

	contactService := services.NewContactService(contactRepo)
	medicationService := services.NewMedicationService(store, medicationRepo, logRepo, contactRepo)
	careService := services.NewCareInstructionService(instructionRepo)

	dispatcher := commands.NewDispatcher(contactService, medicationService, careService)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.NewRouter(dispatcher),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info("record store listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown failed", "error", err)
	}
	logger.Info("server exited")
}
