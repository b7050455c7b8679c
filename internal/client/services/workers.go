package services

import (
	"context"
	"encoding/json"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// WorkerDetail describes one background worker on the backend.
type WorkerDetail struct {
	HasFailedJob bool   `json:"has_failed_job"`
	ID           string `json:"id"`
	Interval     int    `json:"interval"`
	Title        string `json:"title"`
}

// WorkerDetails maps worker id to its detail record.
type WorkerDetails map[string]WorkerDetail

// Job log statuses. started is the only non-terminal state; it transitions
// to done or failed and never back.
const (
	JobStatusStarted = "started"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// WorkerJobLog is an append-only record of one worker execution attempt.
type WorkerJobLog struct {
	CreatedAt string          `json:"created_at"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	UpdatedAt string          `json:"updated_at"`
}

type WorkerTemporaryFile struct {
	ModifiedAt string `json:"modified_at"`
	Path       string `json:"path"`
	Size       string `json:"size"`
}

var KeyWorkerDetails = cache.NewKey("/workers/details")

func KeyWorkerJobLogs(workerID string) cache.Key {
	return cache.NewKey("/workers/{id}/job-logs", workerID)
}

func KeyWorkerTemporaryFiles(workerID string) cache.Key {
	return cache.NewKey("/workers/{id}/temporary-files", workerID)
}

type WorkersService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewWorkersService(apiClient *api.Client, c *cache.Cache) *WorkersService {
	return &WorkersService{api: apiClient, cache: c}
}

func (s *WorkersService) Details(ctx context.Context) (WorkerDetails, error) {
	return cache.Fetch(ctx, s.cache, KeyWorkerDetails, cache.StaleNever, func(ctx context.Context) (WorkerDetails, error) {
		return api.Data[WorkerDetails](s.api.Request(ctx, "/workers/details", api.Options{}))
	})
}

func (s *WorkersService) JobLogs(ctx context.Context, workerID string) ([]WorkerJobLog, error) {
	if workerID == "" {
		return nil, missingParam("worker id")
	}
	return cache.Fetch(ctx, s.cache, KeyWorkerJobLogs(workerID), cache.StaleNever, func(ctx context.Context) ([]WorkerJobLog, error) {
		return api.Data[[]WorkerJobLog](s.api.Request(ctx, "/workers/"+workerID+"/job-logs", api.Options{}))
	})
}

func (s *WorkersService) TemporaryFiles(ctx context.Context, workerID string) ([]WorkerTemporaryFile, error) {
	if workerID == "" {
		return nil, missingParam("worker id")
	}
	return cache.Fetch(ctx, s.cache, KeyWorkerTemporaryFiles(workerID), cache.StaleNever, func(ctx context.Context) ([]WorkerTemporaryFile, error) {
		return api.Data[[]WorkerTemporaryFile](s.api.Request(ctx, "/workers/"+workerID+"/temporary-files", api.Options{}))
	})
}

func (s *WorkersService) DeleteJobLog(ctx context.Context, workerID, jobLogID string) error {
	if _, err := s.api.Request(ctx, "DELETE /workers/"+workerID+"/job-logs/"+jobLogID, api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, KeyWorkerJobLogs(workerID), func(item WorkerJobLog) bool { return item.ID == jobLogID })
	return nil
}

// PurgeJobLogs deletes every job log of the worker. Irreversible.
func (s *WorkersService) PurgeJobLogs(ctx context.Context, workerID string) error {
	if _, err := s.api.Request(ctx, "DELETE /workers/"+workerID+"/job-logs", api.Options{}); err != nil {
		return err
	}
	s.cache.Invalidate(KeyWorkerJobLogs(workerID))
	return nil
}

// PurgeTemporaryFiles deletes the worker's scratch files. Irreversible.
func (s *WorkersService) PurgeTemporaryFiles(ctx context.Context, workerID string) error {
	if _, err := s.api.Request(ctx, "DELETE /workers/"+workerID+"/temporary-files", api.Options{}); err != nil {
		return err
	}
	s.cache.Invalidate(KeyWorkerTemporaryFiles(workerID))
	return nil
}
