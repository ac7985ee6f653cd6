package repo

import (
	"time"

	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImportJobRepository struct {
	db *gorm.DB
}

func NewImportJobRepository(db *gorm.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Create(job *models.ImportJob) error {
	return r.db.Create(job).Error
}

func (r *ImportJobRepository) GetByJobID(jobID uuid.UUID) (*models.ImportJob, error) {
	var job models.ImportJob
	if err := r.db.First(&job, "job_id = ?", jobID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Save overwrites the job's mutable fields. The processing worker is the
// only writer for a job's lifetime, so no optimistic locking is needed here.
func (r *ImportJobRepository) Save(job *models.ImportJob) error {
	return r.db.Save(job).Error
}

// ClaimPending atomically transitions a pending job to processing and
// records its start timestamp. It returns false when the job was not in the
// pending state, which guarantees at most one worker invocation ever
// processes a given job.
func (r *ImportJobRepository) ClaimPending(jobID uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	result := r.db.Model(&models.ImportJob{}).
		Where("job_id = ? AND status = ?", jobID, models.ImportJobStatusPending).
		Updates(map[string]interface{}{
			"status":     models.ImportJobStatusProcessing,
			"started_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// List returns all jobs, newest first
func (r *ImportJobRepository) List() ([]models.ImportJob, error) {
	var jobs []models.ImportJob
	if err := r.db.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *ImportJobRepository) CountByStatus(status models.ImportJobStatus) (int64, error) {
	var total int64
	err := r.db.Model(&models.ImportJob{}).Where("status = ?", status).Count(&total).Error
	return total, err
}
