package usecase

import (
	"context"

	orderdomain "etsy-scanner-backend/internal/order/domain"
)

// ScanState identifies where a scan is in its lifecycle.
type ScanState string

const (
	ScanStateIdle       ScanState = "idle"
	ScanStatePlanning   ScanState = "planning"
	ScanStateFetching   ScanState = "fetching-list"
	ScanStateProcessing ScanState = "processing-batches"
	ScanStateFinalizing ScanState = "finalizing"
	ScanStateFailed     ScanState = "failed"
)

// ScanProgress is the snapshot surfaced to presentation after every batch
// and on request.
type ScanProgress struct {
	State     ScanState `json:"state"`
	Current   int       `json:"current"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Error     string    `json:"error,omitempty"`
}

// ScanOutcome is the terminal result of one synchronous scan pass.
type ScanOutcome struct {
	Progress ScanProgress               `json:"progress"`
	Orders   []*orderdomain.OrderRecord `json:"orders"`
}

// ScanUsecase defines the interface for the mailbox scan pipeline
type ScanUsecase interface {
	// SetEventService allows wiring the progress notification sink after creation
	SetEventService(svc EventService)
	// ResolveOwner derives the scanning user's identity from the bearer credential
	ResolveOwner(ctx context.Context, accessToken, refreshToken string) (string, error)
	// StartScan kicks off a background scan for the owner; rejects with
	// ErrScanInProgress while a scan for the same owner is running
	StartScan(ctx context.Context, ownerEmail, accessToken, refreshToken string) error
	// Scan runs the full pipeline synchronously and returns the outcome
	Scan(ctx context.Context, ownerEmail, accessToken, refreshToken string) (*ScanOutcome, error)
	// Status returns the owner's current progress snapshot
	Status(ownerEmail string) ScanProgress
	// GetOrders returns the owner's stored orders newest-first with pagination
	GetOrders(ownerEmail string, limit, offset int) ([]*orderdomain.OrderRecord, int64, error)
}
