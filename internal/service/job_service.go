// internal/service/job_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"receipt-service/internal/model"
	"receipt-service/internal/repository"
	"receipt-service/internal/utils"
)

// JobService exposes the print job log
type JobService struct {
	jobs   repository.JobRepository
	logger *utils.ServiceLogger
}

// NewJobService creates a new job service
func NewJobService(jobs repository.JobRepository, logger *zap.Logger) *JobService {
	return &JobService{
		jobs:   jobs,
		logger: utils.NewServiceLogger(logger, "job-service"),
	}
}

// GetJob returns one job
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.PrintJob, error) {
	return s.jobs.GetByID(ctx, id)
}

// PaginationResult describes one page of a listing
type PaginationResult struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// ListJobs returns a page of jobs, newest first
func (s *JobService) ListJobs(ctx context.Context, filter *model.JobFilter) ([]*model.PrintJob, *PaginationResult, error) {
	filter.Normalize()

	jobs, total, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list print jobs: %w", err)
	}

	pagination := &PaginationResult{
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
	}
	return jobs, pagination, nil
}

// GetStats summarizes the job log
func (s *JobService) GetStats(ctx context.Context) (*repository.JobStats, error) {
	return s.jobs.GetStats(ctx)
}

// RunRetention prunes jobs older than retention every interval until ctx ends
func (s *JobService) RunRetention(ctx context.Context, retention, interval time.Duration) {
	if retention <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.jobs.DeleteOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				s.logger.Error("Job retention failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				s.logger.Info("Old print jobs pruned", zap.Int64("deleted", deleted))
			}
		}
	}
}
