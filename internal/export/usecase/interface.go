package usecase

import (
	exportdomain "etsy-scanner-backend/internal/export/domain"
)

// ExportUsecase defines the interface for async CSV export
type ExportUsecase interface {
	// SetEventService allows wiring the notification sink after creation
	SetEventService(svc EventService)
	// Start starts the background export workers
	Start()
	// Stop stops all workers gracefully
	Stop()
	// CreateExport creates a pending job for the owner and enqueues it
	CreateExport(ownerEmail string) (*exportdomain.ExportJob, error)
	// ListExports returns the owner's jobs newest-first
	ListExports(ownerEmail string) ([]*exportdomain.ExportJob, error)
	// ResolveDownload verifies a signed download token and returns the
	// on-disk path of the export file
	ResolveDownload(jobID, token string) (string, error)
}
