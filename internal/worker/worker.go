package worker

import (
	"context"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	jobTimeout          = 5 * time.Minute
	initialBackoff      = 1 * time.Second
	maxBackoff          = 5 * time.Minute
)

// IngestWorker polls the job queue and runs the ingestion pipeline for each
// claimed job. Failures back off exponentially so a broken downstream
// service is not hammered.
type IngestWorker struct {
	jobRepo  domain.JobRepository
	ingest   usecase.IngestDocumentUsecase
	logger   *slog.Logger
	stopChan chan struct{}
	backoff  time.Duration
}

func NewIngestWorker(
	jobRepo domain.JobRepository,
	ingest usecase.IngestDocumentUsecase,
	logger *slog.Logger,
) *IngestWorker {
	return &IngestWorker{
		jobRepo:  jobRepo,
		ingest:   ingest,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (w *IngestWorker) Start() {
	w.logger.Info("ingest_worker_started")
	go w.run()
}

func (w *IngestWorker) Stop() {
	w.logger.Info("ingest_worker_stopping")
	close(w.stopChan)
}

func (w *IngestWorker) run() {
	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processNextJob()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(defaultPollInterval)
			}
		}
	}
}

func (w *IngestWorker) processNextJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	job, err := w.jobRepo.AcquireNext(ctx)
	if err != nil {
		w.logger.Error("failed_to_acquire_job", slog.String("error", err.Error()))
		return
	}
	if job == nil {
		return // queue empty
	}

	w.logger.Info("ingest_job_started",
		slog.String("job_id", job.ID.String()),
		slog.String("document_id", job.DocumentID))

	chunkCount, processErr := w.ingest.Ingest(ctx, job.DocumentID, job.Filename, job.SourcePath)

	status := "completed"
	var errMsg *string
	if processErr != nil {
		status = "failed"
		msg := processErr.Error()
		errMsg = &msg
		w.backoff = w.nextBackoff(w.backoff)
		w.logger.Warn("ingest_job_failed",
			slog.String("job_id", job.ID.String()),
			slog.Duration("backoff", w.backoff),
			slog.String("error", processErr.Error()))
	} else {
		w.backoff = 0
		w.logger.Info("ingest_job_completed",
			slog.String("job_id", job.ID.String()),
			slog.Int("chunk_count", chunkCount))
	}

	if err := w.jobRepo.UpdateStatus(ctx, job.ID, status, errMsg); err != nil {
		w.logger.Error("failed_to_update_job_status",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (w *IngestWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
