package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"najahtn/orientation-api/internal/repositories"
)

// Worker runs queued comparison analyses in the background so POST /comparisons
// can return immediately.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(cmpID uuid.UUID)
}

type worker struct {
	cmpRepo     repositories.ComparisonRepository
	comparator  ComparatorService
	jobQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewWorker(
	cmpRepo repositories.ComparisonRepository,
	comparator ComparatorService,
	concurrency int,
) Worker {
	return &worker{
		cmpRepo:     cmpRepo,
		comparator:  comparator,
		jobQueue:    make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	// Requeue comparisons that were left queued across a restart.
	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(cmpID uuid.UUID) {
	select {
	case w.jobQueue <- cmpID:
		log.Printf("📥 Comparison %s enqueued\n", cmpID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue comparison %s\n", cmpID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case cmpID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing comparison %s\n", workerID, cmpID)
			if err := w.comparator.AnalyzeComparison(ctx, cmpID); err != nil {
				log.Printf("❌ Worker #%d failed on comparison %s: %v\n", workerID, cmpID, err)
			} else {
				log.Printf("✅ Worker #%d completed comparison %s\n", workerID, cmpID)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.cmpRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending comparisons: %v\n", err)
				continue
			}
			for _, job := range pending {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
