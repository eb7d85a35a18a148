package domain

import "time"

// ScanMetadata tracks the farthest-back mailbox boundary ever scanned for an
// owner. Created lazily on the first scan with the default lookback; the
// planner consults it but never moves GlobalOldestDate forward.
type ScanMetadata struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	OwnerEmail       string     `json:"owner_email" gorm:"uniqueIndex;not null"`
	GlobalOldestDate time.Time  `json:"global_oldest_date"`
	LastScannedAt    *time.Time `json:"last_scanned_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ScanMetadata) TableName() string {
	return "email_scan_metadata"
}
