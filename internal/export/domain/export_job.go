package domain

import "time"

// ExportStatus is the lifecycle state of an export job.
type ExportStatus string

const (
	ExportStatusPending    ExportStatus = "pending"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusCompleted  ExportStatus = "completed"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJob is one async CSV export request. Jobs run pending -> processing
// -> completed|failed and are never retried automatically.
type ExportJob struct {
	ID              string       `json:"id" gorm:"primaryKey"`
	OwnerEmail      string       `json:"owner_email" gorm:"index;not null"`
	Status          ExportStatus `json:"status" gorm:"index"`
	ProgressCurrent int          `json:"progress_current"`
	ProgressTotal   int          `json:"progress_total"`
	TotalOrders     int          `json:"total_orders"`
	DateRangeStart  *time.Time   `json:"date_range_start,omitempty"`
	DateRangeEnd    *time.Time   `json:"date_range_end,omitempty"`
	FileName        string       `json:"file_name,omitempty"`
	FileURL         string       `json:"file_url,omitempty"`
	ErrorMessage    string       `json:"error_message,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (ExportJob) TableName() string {
	return "export_jobs"
}
