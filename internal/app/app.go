package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trashify/internal/config"
	"trashify/internal/ewaste"
	"trashify/internal/logger"
	"trashify/internal/metrics"
	"trashify/internal/repository"
	"trashify/internal/repository/sqlite"
	"trashify/internal/routes"
	"trashify/internal/services"
	"trashify/internal/services/detection"
	"trashify/internal/services/storage"
	"trashify/internal/services/websocket"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config        *config.Config
	logger        *logger.Logger
	detector      *detection.Client
	db            *sqlite.DB
	bufferService *storage.BufferService
	hubService    *websocket.HubService
	manager       *services.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	taxonomy, err := ewaste.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		log.Close()
		return nil, err
	}

	detector, err := detection.NewClient(cfg.DetectorURL, time.Duration(cfg.DetectorTimeout)*time.Second)
	if err != nil {
		log.Close()
		return nil, err
	}

	a := &App{
		config:     cfg,
		logger:     log,
		detector:   detector,
		hubService: websocket.NewHubService(log),
	}

	// Interfaces stay untyped nil when the ledger is disabled.
	var (
		uploads    repository.UploadRepository
		detections repository.DetectionRepository
	)
	if cfg.LedgerEnabled() {
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to open ledger: %w", err)
		}
		uploadRepo := sqlite.NewUploadRepository(db)
		a.db = db
		a.bufferService = storage.NewBufferService(uploadRepo, cfg.LedgerBufferLimit, log)
		uploads = uploadRepo
		detections = sqlite.NewDetectionRepository(db)
	}

	a.manager = services.NewManager(detector, taxonomy, a.bufferService, uploads, detections, a.hubService, cfg, log)
	metrics.Register()

	return a, nil
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down in order: HTTP
// server, stats workers, hub, ledger buffer, database.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bufferCtx, cancelBuffer := context.WithCancel(context.Background())
	bufferDone := make(chan struct{})
	if a.bufferService != nil {
		go func() {
			a.bufferService.Run(bufferCtx, time.Duration(a.config.LedgerFlushInterval)*time.Second)
			close(bufferDone)
		}()
	} else {
		close(bufferDone)
	}
	go a.hubService.Run()

	router := routes.SetupRoutes(a.manager, a.detector.BaseURL(), a.config, a.logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("♻️  Trashify Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🤖 Detector: %s\n", a.config.DetectorURL)
	if a.config.LedgerEnabled() {
		fmt.Printf("📁 Ledger: %s\n", a.config.DBPath)
	} else {
		fmt.Printf("📁 Ledger: disabled\n")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		a.logger.Info("🛑 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("HTTP shutdown error: %v", err)
		}
		cancel()
	}

	a.manager.Stop()
	a.hubService.Stop()
	cancelBuffer()
	<-bufferDone

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Error closing ledger: %v", err)
		}
	}
	a.logger.Close()
	return runErr
}
