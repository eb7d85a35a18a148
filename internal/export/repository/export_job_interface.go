package repository

import (
	"time"

	exportdomain "etsy-scanner-backend/internal/export/domain"
)

// ExportJobRepository defines the interface for export job persistence
type ExportJobRepository interface {
	Create(job *exportdomain.ExportJob) error
	FindByID(id string) (*exportdomain.ExportJob, error)
	// FindByOwner returns the owner's jobs newest-first
	FindByOwner(ownerEmail string) ([]*exportdomain.ExportJob, error)
	MarkProcessing(id string) error
	UpdateProgress(id string, current, total int) error
	MarkCompleted(id, fileName, fileURL string, totalOrders int, rangeStart, rangeEnd *time.Time) error
	MarkFailed(id, errorMessage string) error
}
