package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FailedJob is an operator-facing record of a job that exhausted its attempts
// or failed permanently.
type FailedJob struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	Job      string    `gorm:"size:100;index" json:"job"`
	UniqueID string    `gorm:"size:191" json:"unique_id"`
	Attempts int       `json:"attempts"`
	Outcome  string    `gorm:"size:20" json:"outcome"`
	Error    string    `gorm:"type:text" json:"error"`
	FailedAt time.Time `gorm:"index" json:"failed_at"`
}

func (FailedJob) TableName() string {
	return "failed_jobs"
}

// FailedJobStore persists permanently failed jobs.
type FailedJobStore interface {
	Record(ctx context.Context, job FailedJob) error
}

// GormFailedJobStore stores failed jobs in the failed_jobs table.
type GormFailedJobStore struct {
	db *gorm.DB
}

// NewFailedJobStore returns a store writing through db.
func NewFailedJobStore(db *gorm.DB) *GormFailedJobStore {
	return &GormFailedJobStore{db: db}
}

func (s *GormFailedJobStore) Record(ctx context.Context, job FailedJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.FailedAt.IsZero() {
		job.FailedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return fmt.Errorf("failed to record failed job %s: %w", job.Job, err)
	}
	return nil
}

// Recent returns the most recent failed jobs, newest first.
func (s *GormFailedJobStore) Recent(ctx context.Context, limit int) ([]FailedJob, error) {
	var jobs []FailedJob
	err := s.db.WithContext(ctx).Order("failed_at DESC").Limit(limit).Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list failed jobs: %w", err)
	}
	return jobs, nil
}
