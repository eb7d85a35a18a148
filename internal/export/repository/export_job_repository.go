package repository

import (
	"time"

	exportdomain "etsy-scanner-backend/internal/export/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// exportJobRepository implements ExportJobRepository using GORM
type exportJobRepository struct {
	db *gorm.DB
}

// NewExportJobRepository creates a new instance of exportJobRepository
func NewExportJobRepository(db *gorm.DB) ExportJobRepository {
	return &exportJobRepository{
		db: db,
	}
}

func (r *exportJobRepository) Create(job *exportdomain.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = exportdomain.ExportStatusPending
	}
	job.CreatedAt = time.Now()
	return r.db.Create(job).Error
}

func (r *exportJobRepository) FindByID(id string) (*exportdomain.ExportJob, error) {
	var job exportdomain.ExportJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *exportJobRepository) FindByOwner(ownerEmail string) ([]*exportdomain.ExportJob, error) {
	var jobs []*exportdomain.ExportJob
	err := r.db.Where("owner_email = ?", ownerEmail).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *exportJobRepository) MarkProcessing(id string) error {
	return r.db.Model(&exportdomain.ExportJob{}).Where("id = ?", id).
		Update("status", exportdomain.ExportStatusProcessing).Error
}

func (r *exportJobRepository) UpdateProgress(id string, current, total int) error {
	return r.db.Model(&exportdomain.ExportJob{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"progress_current": current,
			"progress_total":   total,
		}).Error
}

func (r *exportJobRepository) MarkCompleted(id, fileName, fileURL string, totalOrders int, rangeStart, rangeEnd *time.Time) error {
	now := time.Now()
	return r.db.Model(&exportdomain.ExportJob{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           exportdomain.ExportStatusCompleted,
			"file_name":        fileName,
			"file_url":         fileURL,
			"total_orders":     totalOrders,
			"date_range_start": rangeStart,
			"date_range_end":   rangeEnd,
			"completed_at":     now,
		}).Error
}

func (r *exportJobRepository) MarkFailed(id, errorMessage string) error {
	now := time.Now()
	return r.db.Model(&exportdomain.ExportJob{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        exportdomain.ExportStatusFailed,
			"error_message": errorMessage,
			"completed_at":  now,
		}).Error
}
