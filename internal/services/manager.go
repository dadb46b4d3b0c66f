package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trashify/internal/config"
	"trashify/internal/dto"
	"trashify/internal/ewaste"
	"trashify/internal/logger"
	"trashify/internal/metrics"
	"trashify/internal/models"
	"trashify/internal/repository"
	"trashify/internal/services/detection"
	"trashify/internal/services/storage"
	"trashify/internal/services/websocket"
)

const (
	SourceRemote = "remote"
	SourceLedger = "ledger"

	refreshQueueSize = 8
	refreshTimeout   = 10 * time.Second
)

// ErrStatsUnavailable is returned when neither the detection service nor the
// ledger can provide statistics.
var ErrStatsUnavailable = errors.New("statistics unavailable")

// ErrLedgerDisabled is returned by ledger operations when no database is configured.
var ErrLedgerDisabled = errors.New("ledger disabled")

var ErrUploadNotFound = errors.New("upload not found")

// StatsResult is a StatsReport plus the source that produced it.
type StatsResult struct {
	ewaste.StatsReport
	Source string `json:"source"`
}

// UploadDetail is one ledger upload with its detections.
type UploadDetail struct {
	models.Upload
	Detections []models.Detection `json:"detections"`
}

// HealthStatus describes the shell and its collaborators.
type HealthStatus struct {
	Status   string `json:"status"`
	Detector string `json:"detector"`
	Ledger   string `json:"ledger"`
	Viewers  int    `json:"viewers"`
}

type Manager struct {
	detector         detection.Service
	presenter        *ewaste.Presenter
	reporter         *ewaste.Reporter
	bufferService    *storage.BufferService
	uploads          repository.UploadRepository
	detections       repository.DetectionRepository
	websocketService *websocket.HubService
	logger           *logger.Logger

	refreshQueue chan struct{}
	numWorkers   int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager wires the core components and starts the stats refresh workers.
// bufferService, uploads and detections are nil when the ledger is disabled.
func NewManager(detector detection.Service, taxonomy *ewaste.Taxonomy, bufferService *storage.BufferService, uploads repository.UploadRepository, detections repository.DetectionRepository, websocketService *websocket.HubService, config *config.Config, logger *logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	manager := &Manager{
		detector:         detector,
		presenter:        ewaste.NewPresenter(ewaste.NewResolver(taxonomy)),
		reporter:         ewaste.NewReporter(ewaste.NewEstimator(ewaste.DefaultImpactFactors())),
		bufferService:    bufferService,
		uploads:          uploads,
		detections:       detections,
		websocketService: websocketService,
		logger:           logger,
		refreshQueue:     make(chan struct{}, refreshQueueSize),
		numWorkers:       config.StatsWorkers,
		ctx:              ctx,
		cancel:           cancel,
	}

	for i := 0; i < manager.numWorkers; i++ {
		manager.wg.Add(1)
		go manager.refreshWorker(i)
	}

	manager.logger.Info("🎬 Manager started with %d stats worker(s), ledger enabled: %v", manager.numWorkers, uploads != nil)
	return manager
}

// Detect sends the image to the detection service and presents the result.
// The upload is recorded in the ledger and viewers get refreshed stats.
func (m *Manager) Detect(ctx context.Context, filename string, image []byte) (*dto.DetectionView, error) {
	start := time.Now()
	resp, err := m.detector.Detect(ctx, filename, image)
	elapsed := time.Since(start)
	metrics.DetectDurationSeconds.Observe(elapsed.Seconds())

	if err != nil {
		result := "upstream_error"
		if errors.Is(err, detection.ErrMalformedInput) {
			result = "malformed"
		}
		metrics.DetectRequestsTotal.WithLabelValues(result).Inc()
		m.logger.Error("Detection failed for %s after %s: %v", filename, elapsed.Round(time.Millisecond), err)
		return nil, err
	}

	view := m.presenter.View(*resp)
	metrics.DetectRequestsTotal.WithLabelValues("ok").Inc()
	for _, record := range view.Records {
		category := record.Category
		if category == "" {
			category = "unknown"
		}
		metrics.ItemsDetectedTotal.WithLabelValues(category).Inc()
		metrics.GuidanceSourceTotal.WithLabelValues("recycling", string(record.SuggestionSource)).Inc()
		metrics.GuidanceSourceTotal.WithLabelValues("reuse", string(record.IdeaSource)).Inc()
	}

	if m.bufferService != nil {
		m.bufferService.Add(dto.LedgerEntry{
			Filename:          filename,
			ReceivedAt:        start,
			AnnotatedImageRef: resp.AnnotatedImageRef,
			ProcessingTime:    elapsed,
			Detections:        resp.Detections,
		})
	}

	m.logger.Info("📷 %s: %s in %s", filename, view.Caption, elapsed.Round(time.Millisecond))
	m.RequestStatsRefresh()
	return &view, nil
}

// Stats returns the remote statistics, falling back to the ledger when the
// detection service cannot answer.
func (m *Manager) Stats(ctx context.Context) (*StatsResult, error) {
	summary, err := m.detector.Stats(ctx)
	if err == nil {
		metrics.StatsRequestsTotal.WithLabelValues(SourceRemote).Inc()
		return &StatsResult{StatsReport: m.reporter.Report(*summary), Source: SourceRemote}, nil
	}

	if m.uploads == nil {
		metrics.StatsRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}
	m.logger.Warning("⚠️  Remote stats unavailable, using ledger: %v", err)

	if m.bufferService != nil {
		m.bufferService.Flush()
	}
	summary, ledgerErr := m.uploads.GetStats()
	if ledgerErr != nil {
		metrics.StatsRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: remote: %v, ledger: %v", ErrStatsUnavailable, err, ledgerErr)
	}

	metrics.StatsRequestsTotal.WithLabelValues(SourceLedger).Inc()
	return &StatsResult{StatsReport: m.reporter.Report(*summary), Source: SourceLedger}, nil
}

// Health checks the detection service.
func (m *Manager) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:   "ok",
		Detector: "reachable",
		Ledger:   "disabled",
		Viewers:  m.websocketService.GetClientCount(),
	}
	if m.uploads != nil {
		status.Ledger = "enabled"
	}
	if err := m.detector.Health(ctx); err != nil {
		status.Status = "degraded"
		status.Detector = "unreachable: " + err.Error()
	}
	return status
}

// ListUploads pages through the ledger, newest first.
func (m *Manager) ListUploads(filter *models.UploadFilter) ([]models.Upload, int, error) {
	if m.uploads == nil {
		return nil, 0, ErrLedgerDisabled
	}
	if m.bufferService != nil {
		m.bufferService.Flush()
	}

	total, err := m.uploads.GetTotalCount(filter)
	if err != nil {
		return nil, 0, err
	}
	uploads, err := m.uploads.GetAll(filter)
	if err != nil {
		return nil, 0, err
	}
	return uploads, total, nil
}

// GetUpload returns one ledger upload and its detections.
func (m *Manager) GetUpload(id int64) (*UploadDetail, error) {
	if m.uploads == nil || m.detections == nil {
		return nil, ErrLedgerDisabled
	}
	if m.bufferService != nil {
		m.bufferService.Flush()
	}

	upload, err := m.uploads.GetByID(id)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrUploadNotFound
	}
	detections, err := m.detections.GetByUploadID(id)
	if err != nil {
		return nil, err
	}
	if detections == nil {
		detections = []models.Detection{}
	}
	return &UploadDetail{Upload: *upload, Detections: detections}, nil
}

// Labels lists every label recorded in the ledger, for filtering.
func (m *Manager) Labels() ([]string, error) {
	if m.detections == nil {
		return nil, ErrLedgerDisabled
	}
	if m.bufferService != nil {
		m.bufferService.Flush()
	}
	return m.detections.GetAllLabels()
}

// ClearLedger deletes every recorded upload.
func (m *Manager) ClearLedger() error {
	if m.uploads == nil {
		return ErrLedgerDisabled
	}
	if m.bufferService != nil {
		m.bufferService.Flush()
	}
	if err := m.uploads.DeleteAll(); err != nil {
		return err
	}
	m.logger.Info("Ledger cleared")
	m.RequestStatsRefresh()
	return nil
}

// RequestStatsRefresh queues a stats push to viewers. It never blocks; when
// the queue is full a refresh is already pending and this one is skipped.
func (m *Manager) RequestStatsRefresh() {
	if m.ctx.Err() != nil {
		return
	}
	select {
	case m.refreshQueue <- struct{}{}:
	default:
		metrics.StatsRefreshDroppedTotal.Inc()
		m.logger.Warning("⚠️  Stats refresh queue full - skipping refresh")
	}
}

func (m *Manager) GetWebsocketService() *websocket.HubService {
	return m.websocketService
}

// refreshWorker pushes fresh statistics to viewers.
func (m *Manager) refreshWorker(workerID int) {
	defer m.wg.Done()

	m.logger.Info("🔧 Stats worker %d started", workerID)

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Info("🔧 Stats worker %d stopped", workerID)
			return
		case <-m.refreshQueue:
			m.publishStats()
		}
	}
}

func (m *Manager) publishStats() {
	if m.websocketService.GetClientCount() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(m.ctx, refreshTimeout)
	defer cancel()

	result, err := m.Stats(ctx)
	if err != nil {
		m.logger.Error("Error refreshing stats: %v", err)
		return
	}
	if err := m.websocketService.BroadcastJSON("stats", result); err != nil {
		m.logger.Error("Error broadcasting stats: %v", err)
	}
}

// Stop ends the refresh workers. Queued refreshes are discarded.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
	m.logger.Info("🛑 All stats workers stopped")
}
