package repository

import (
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"
)

// ScanMetadataRepository defines the interface for per-owner scan state
type ScanMetadataRepository interface {
	// GetByOwner returns the owner's scan metadata, or nil when none exists yet
	GetByOwner(ownerEmail string) (*orderdomain.ScanMetadata, error)
	// Create persists new scan metadata for an owner
	Create(metadata *orderdomain.ScanMetadata) error
	// TouchLastScanned records when the owner's latest scan completed
	TouchLastScanned(ownerEmail string, scannedAt time.Time) error
}
