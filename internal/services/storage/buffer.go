package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"trashify/internal/dto"
	"trashify/internal/logger"
	"trashify/internal/metrics"
)

// Recorder persists a batch of ledger entries.
type Recorder interface {
	RecordBatch(entries []dto.LedgerEntry) error
}

// BufferService keeps processed uploads in memory and writes them to the
// ledger in batches, on a ticker or as soon as the buffer fills up.
type BufferService struct {
	recorder    Recorder
	entries     []dto.LedgerEntry
	bufferLimit int
	logger      *logger.Logger
	mu          sync.Mutex
}

func NewBufferService(recorder Recorder, bufferLimit int, logger *logger.Logger) *BufferService {
	if bufferLimit < 1 {
		bufferLimit = 1
	}
	return &BufferService{
		recorder:    recorder,
		bufferLimit: bufferLimit,
		entries:     make([]dto.LedgerEntry, 0, bufferLimit),
		logger:      logger,
	}
}

// Run flushes every flushInterval until ctx is done, then flushes once more.
func (s *BufferService) Run(ctx context.Context, flushInterval time.Duration) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Flush()
		case <-ctx.Done():
			s.Flush()
			return
		}
	}
}

// Add buffers an entry and flushes when the buffer reaches its limit. If that
// flush fails the buffer keeps at most bufferLimit entries, dropping the oldest.
func (s *BufferService) Add(entry dto.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Detections = slices.Clone(entry.Detections)
	s.entries = append(s.entries, entry)

	if len(s.entries) < s.bufferLimit {
		return
	}

	s.flushLocked()

	if overflow := len(s.entries) - s.bufferLimit; overflow > 0 {
		s.entries = slices.Delete(s.entries, 0, overflow)
		metrics.LedgerEntriesDroppedTotal.Add(float64(overflow))
		s.logger.Warning("⚠️  Ledger buffer full, dropped %d entries", overflow)
	}
}

// Len returns the number of buffered entries.
func (s *BufferService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Flush writes all buffered entries. On failure they stay buffered for the
// next attempt.
func (s *BufferService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

func (s *BufferService) flushLocked() {
	if len(s.entries) == 0 {
		return
	}

	if err := s.recorder.RecordBatch(s.entries); err != nil {
		metrics.LedgerFlushesTotal.WithLabelValues("error").Inc()
		s.logger.Error("Error flushing %d ledger entries: %v", len(s.entries), err)
		return
	}

	metrics.LedgerFlushesTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Flushed %d ledger entries", len(s.entries))
	s.entries = s.entries[:0] // Clear buffer
}
