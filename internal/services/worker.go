package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/logger"
	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/repositories"
)

// ApplicationScorer scores and stores one application.
type ApplicationScorer interface {
	ScoreApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(applicationID uuid.UUID)
}

type WorkerOptions struct {
	Concurrency  int
	PollInterval time.Duration
	// Lookback bounds how old an unscored application may be to be picked up.
	Lookback time.Duration
}

const pollBatchSize = 10

type worker struct {
	appRepo  repositories.ApplicationRepository
	scorer   ApplicationScorer
	queue    chan uuid.UUID
	opts     WorkerOptions
	logger   *zap.Logger
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	attempted map[uuid.UUID]time.Time
}

func NewWorker(
	appRepo repositories.ApplicationRepository,
	scorer ApplicationScorer,
	opts WorkerOptions,
	log *zap.Logger,
) Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Second
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &worker{
		appRepo:   appRepo,
		scorer:    scorer,
		queue:     make(chan uuid.UUID, 100),
		opts:      opts,
		logger:    log.Named("autoscore"),
		stopChan:  make(chan struct{}),
		attempted: make(map[uuid.UUID]time.Time),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting auto-scoring worker", zap.Int("concurrency", w.opts.Concurrency))

	for i := 0; i < w.opts.Concurrency; i++ {
		w.wg.Add(1)
		go w.processQueue(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollUnscored(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping auto-scoring worker")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("auto-scoring worker stopped")
	})
}

// Enqueue implements Worker. Each application is attempted once per process;
// when the queue is full the poller picks the application up later.
func (w *worker) Enqueue(applicationID uuid.UUID) {
	if !w.markAttempted(applicationID) {
		return
	}

	select {
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue", zap.String(logger.FieldApplicationID, applicationID.String()))
		w.forget(applicationID)
		return
	default:
	}

	select {
	case w.queue <- applicationID:
		w.logger.Debug("application enqueued", zap.String(logger.FieldApplicationID, applicationID.String()))
	default:
		w.logger.Warn("scoring queue full, deferring to poller", zap.String(logger.FieldApplicationID, applicationID.String()))
		w.forget(applicationID)
	}
}

func (w *worker) markAttempted(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, seen := w.attempted[id]; seen {
		return false
	}
	w.attempted[id] = time.Now()
	return true
}

// attemptedSince prunes attempts older than cutoff and returns the rest.
// An application attempted before cutoff was created before it too, so the
// poller's window no longer reaches it.
func (w *worker) attemptedSince(cutoff time.Time) []uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(w.attempted))
	for id, at := range w.attempted {
		if at.Before(cutoff) {
			delete(w.attempted, id)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (w *worker) forget(id uuid.UUID) {
	w.mu.Lock()
	delete(w.attempted, id)
	w.mu.Unlock()
}

func (w *worker) processQueue(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case id := <-w.queue:
			fields := []zap.Field{zap.String(logger.FieldApplicationID, id.String())}
			app, err := w.scorer.ScoreApplication(ctx, id)
			if err != nil {
				log.Warn("auto-scoring failed", append(fields, zap.Error(err))...)
				continue
			}
			log.Info("auto-scoring completed", append(fields, zap.Int("score", app.ATSScore.Score))...)
		}
	}
}

func (w *worker) pollUnscored(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollOnce()
		}
	}
}

// pollOnce enqueues the oldest unscored applications this process has not
// attempted yet, so failed ones never hide those behind them.
func (w *worker) pollOnce() {
	since := time.Now().Add(-w.opts.Lookback)
	pending, err := w.appRepo.FindUnscored(since, w.attemptedSince(since), pollBatchSize)
	if err != nil {
		w.logger.Warn("failed to fetch unscored applications", zap.Error(err))
		return
	}

	for _, app := range pending {
		w.Enqueue(app.ID)
	}
}
