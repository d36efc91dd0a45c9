package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/logger"
)

// ThreadGarbageCollector keeps every board at or below maxThreadCount threads
// by deleting the least recently bumped ones.
type ThreadGarbageCollector struct {
	storage        ThreadGCStorage
	deleter        ThreadDeleter
	maxThreadCount *int

	mu               sync.Mutex
	lastCleanupStats ThreadCleanupStats
}

// ThreadCleanupStats tracks metrics from the last thread cleanup run.
type ThreadCleanupStats struct {
	RunAt          time.Time
	BoardsScanned  int
	BoardsCleaned  int
	ThreadsDeleted int
	DurationMs     int64
	Errors         []string
}

// ThreadDeleter removes a thread with its replies. Pruning needs no password.
type ThreadDeleter interface {
	DeleteThread(ctx context.Context, id domain.ThreadId) error
}

// NewThreadGarbageCollector creates a new thread garbage collector instance.
// maxThreadCount is the maximum number of threads allowed per board (can be nil to disable cleanup).
func NewThreadGarbageCollector(storage ThreadGCStorage, deleter ThreadDeleter, maxThreadCount *int) *ThreadGarbageCollector {
	return &ThreadGarbageCollector{
		storage:        storage,
		deleter:        deleter,
		maxThreadCount: maxThreadCount,
	}
}

// StartBackgroundCleanup runs cleanup every interval until ctx is done.
// It blocks, so callers run it in its own goroutine.
func (gc *ThreadGarbageCollector) StartBackgroundCleanup(ctx context.Context, interval time.Duration) {
	log := logger.Component("thread_gc")
	if gc.maxThreadCount == nil || interval <= 0 {
		log.Info("thread limit not configured, background cleanup disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info("started thread garbage collector",
		"interval", interval,
		"max_threads_per_board", *gc.maxThreadCount)

	for {
		select {
		case <-ticker.C:
			if err := gc.RunCleanup(ctx); err != nil {
				log.Error("thread gc cleanup failed", "error", err)
				continue
			}
			stats := gc.GetLastCleanupStats()
			log.Info("thread gc completed",
				"boards_scanned", stats.BoardsScanned,
				"boards_cleaned", stats.BoardsCleaned,
				"threads_deleted", stats.ThreadsDeleted,
				"duration_ms", stats.DurationMs,
				"errors", len(stats.Errors))
		case <-ctx.Done():
			log.Info("thread gc shutting down gracefully")
			return
		}
	}
}

// RunCleanup executes a single thread garbage collection cycle.
func (gc *ThreadGarbageCollector) RunCleanup(ctx context.Context) error {
	if gc.maxThreadCount == nil {
		return nil
	}

	startTime := time.Now()
	stats := ThreadCleanupStats{
		RunAt:  startTime,
		Errors: []string{},
	}

	boards, err := gc.storage.Boards(ctx)
	if err != nil {
		return fmt.Errorf("failed to get board list: %w", err)
	}
	stats.BoardsScanned = len(boards)

	for _, board := range boards {
		threadCount, err := gc.storage.ThreadCount(ctx, board)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("board '%s': failed to get thread count: %v", board, err))
			continue
		}
		if threadCount <= *gc.maxThreadCount {
			continue
		}
		stats.BoardsCleaned++

		for range threadCount - *gc.maxThreadCount {
			id, err := gc.storage.LeastBumpedThreadId(ctx, board)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("board '%s': failed to get oldest thread: %v", board, err))
				break
			}
			if err := gc.deleter.DeleteThread(ctx, id); err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("board '%s': failed to delete thread %s: %v", board, id, err))
				break
			}
			stats.ThreadsDeleted++
			gcThreadsDeletedTotal.Inc()
		}
	}

	stats.DurationMs = time.Since(startTime).Milliseconds()
	gc.mu.Lock()
	gc.lastCleanupStats = stats
	gc.mu.Unlock()

	return nil
}

// GetLastCleanupStats returns statistics from the last cleanup run.
func (gc *ThreadGarbageCollector) GetLastCleanupStats() ThreadCleanupStats {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.lastCleanupStats
}
