package repository

import (
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// scanMetadataRepository implements ScanMetadataRepository using GORM
type scanMetadataRepository struct {
	db *gorm.DB
}

// NewScanMetadataRepository creates a new instance of scanMetadataRepository
func NewScanMetadataRepository(db *gorm.DB) ScanMetadataRepository {
	return &scanMetadataRepository{
		db: db,
	}
}

func (r *scanMetadataRepository) GetByOwner(ownerEmail string) (*orderdomain.ScanMetadata, error) {
	var metadata orderdomain.ScanMetadata
	err := r.db.Where("owner_email = ?", ownerEmail).First(&metadata).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &metadata, nil
}

func (r *scanMetadataRepository) Create(metadata *orderdomain.ScanMetadata) error {
	if metadata.ID == "" {
		metadata.ID = uuid.New().String()
	}
	now := time.Now()
	metadata.CreatedAt = now
	metadata.UpdatedAt = now
	return r.db.Create(metadata).Error
}

func (r *scanMetadataRepository) TouchLastScanned(ownerEmail string, scannedAt time.Time) error {
	return r.db.Model(&orderdomain.ScanMetadata{}).Where("owner_email = ?", ownerEmail).
		Updates(map[string]interface{}{
			"last_scanned_at": scannedAt,
			"updated_at":      time.Now(),
		}).Error
}
