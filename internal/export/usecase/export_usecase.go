package usecase

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	exportdomain "etsy-scanner-backend/internal/export/domain"
	exportrepo "etsy-scanner-backend/internal/export/repository"
	orderdomain "etsy-scanner-backend/internal/order/domain"
	orderrepo "etsy-scanner-backend/internal/order/repository"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultPageSize is how many orders each storage fetch pulls while building
// an export.
const DefaultPageSize = 1000

// downloadLinkTTL bounds how long a signed retrieval link stays valid.
const downloadLinkTTL = time.Hour

// EventService defines interface for sending export notifications
type EventService interface {
	SendToUser(userID string, eventType string, payload interface{})
}

// exportUsecase implements ExportUsecase with a background worker pool
type exportUsecase struct {
	jobRepo       exportrepo.ExportJobRepository
	orderRepo     orderrepo.OrderRepository
	eventService  EventService
	exportDir     string
	signingSecret []byte
	pageSize      int

	jobQueue    chan string
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	mu          sync.Mutex
}

// NewExportUsecase creates a new instance of exportUsecase
func NewExportUsecase(jobRepo exportrepo.ExportJobRepository, orderRepo orderrepo.OrderRepository, exportDir, signingSecret string, workerCount int) ExportUsecase {
	if workerCount <= 0 {
		workerCount = 3
	}
	return &exportUsecase{
		jobRepo:       jobRepo,
		orderRepo:     orderRepo,
		exportDir:     exportDir,
		signingSecret: []byte(signingSecret),
		pageSize:      DefaultPageSize,
		jobQueue:      make(chan string, 100),
		workerCount:   workerCount,
	}
}

// SetEventService allows wiring EventService after creation
func (u *exportUsecase) SetEventService(svc EventService) {
	u.eventService = svc
}

// Start starts the export workers
func (u *exportUsecase) Start() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.started {
		return
	}

	for i := 0; i < u.workerCount; i++ {
		u.workerWg.Add(1)
		go u.worker(i)
	}
	u.started = true
	log.Printf("[ExportWorker] Started %d workers", u.workerCount)
}

// Stop stops all workers gracefully
func (u *exportUsecase) Stop() {
	close(u.jobQueue)
	u.workerWg.Wait()
	log.Println("[ExportWorker] All workers stopped")
}

func (u *exportUsecase) worker(id int) {
	defer u.workerWg.Done()

	for jobID := range u.jobQueue {
		u.processJob(jobID)
	}

	log.Printf("[ExportWorker] Worker %d stopped", id)
}

func (u *exportUsecase) CreateExport(ownerEmail string) (*exportdomain.ExportJob, error) {
	job := &exportdomain.ExportJob{
		OwnerEmail: ownerEmail,
		Status:     exportdomain.ExportStatusPending,
	}
	if err := u.jobRepo.Create(job); err != nil {
		return nil, err
	}

	select {
	case u.jobQueue <- job.ID:
	default:
		if err := u.jobRepo.MarkFailed(job.ID, "export queue is full"); err != nil {
			log.Printf("[ExportWorker] Failed to mark job %s as failed: %v", job.ID, err)
		}
		return nil, errors.New("export queue is full, try again later")
	}

	return job, nil
}

func (u *exportUsecase) ListExports(ownerEmail string) ([]*exportdomain.ExportJob, error) {
	return u.jobRepo.FindByOwner(ownerEmail)
}

// processJob runs one export end to end. Any step's error marks the job
// failed with the captured message and leaves no file referenced.
func (u *exportUsecase) processJob(jobID string) {
	job, err := u.jobRepo.FindByID(jobID)
	if err != nil || job == nil {
		log.Printf("[ExportWorker] Cannot load job %s: %v", jobID, err)
		return
	}

	if err := u.jobRepo.MarkProcessing(jobID); err != nil {
		log.Printf("[ExportWorker] Cannot mark job %s processing: %v", jobID, err)
		return
	}
	u.notify(job.OwnerEmail, jobID)

	filePath, err := u.buildExport(job)
	if err != nil {
		if filePath != "" {
			os.Remove(filePath)
		}
		log.Printf("[ExportWorker] Job %s failed: %v", jobID, err)
		if markErr := u.jobRepo.MarkFailed(jobID, err.Error()); markErr != nil {
			log.Printf("[ExportWorker] Cannot mark job %s failed: %v", jobID, markErr)
		}
	}
	u.notify(job.OwnerEmail, jobID)
}

// buildExport fetches, serializes, writes and signs. Returns the written file
// path so the caller can clean up on a late failure.
func (u *exportUsecase) buildExport(job *exportdomain.ExportJob) (string, error) {
	count, err := u.orderRepo.CountByOwner(job.OwnerEmail)
	if err != nil {
		return "", fmt.Errorf("counting orders: %w", err)
	}
	total := int(count)

	var allOrders []*orderdomain.OrderRecord
	for page := 0; ; page++ {
		orders, err := u.orderRepo.FindByOwner(job.OwnerEmail, u.pageSize, page*u.pageSize)
		if err != nil {
			return "", fmt.Errorf("fetching orders page %d: %w", page+1, err)
		}
		if len(orders) == 0 {
			break
		}

		allOrders = append(allOrders, orders...)
		if err := u.jobRepo.UpdateProgress(job.ID, len(allOrders), total); err != nil {
			return "", fmt.Errorf("updating progress: %w", err)
		}

		if len(orders) < u.pageSize {
			break
		}
	}

	csvContent := GenerateCSV(allOrders)

	timestamp := time.Now().UTC().Format("20060102150405")
	fileName := filepath.Join(job.OwnerEmail, fmt.Sprintf("%s_orders.csv", timestamp))
	filePath := filepath.Join(u.exportDir, fileName)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(csvContent), 0o644); err != nil {
		return filePath, fmt.Errorf("writing export file: %w", err)
	}

	token, err := u.signDownloadToken(job.ID, fileName)
	if err != nil {
		return filePath, fmt.Errorf("signing download link: %w", err)
	}
	fileURL := fmt.Sprintf("/api/exports/%s/download?token=%s", job.ID, token)

	var rangeStart, rangeEnd *time.Time
	if len(allOrders) > 0 {
		// Orders are newest-first, so the range start is the last element.
		rangeStart = &allOrders[len(allOrders)-1].OrderDate
		rangeEnd = &allOrders[0].OrderDate
	}

	if err := u.jobRepo.MarkCompleted(job.ID, fileName, fileURL, len(allOrders), rangeStart, rangeEnd); err != nil {
		return filePath, fmt.Errorf("completing job: %w", err)
	}

	log.Printf("[ExportWorker] Job %s completed: %d orders -> %s", job.ID, len(allOrders), fileName)
	return filePath, nil
}

// downloadClaims binds a signed link to one job and one file.
type downloadClaims struct {
	JobID    string `json:"job_id"`
	FileName string `json:"file_name"`
	jwt.RegisteredClaims
}

func (u *exportUsecase) signDownloadToken(jobID, fileName string) (string, error) {
	claims := downloadClaims{
		JobID:    jobID,
		FileName: fileName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(downloadLinkTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.signingSecret)
}

func (u *exportUsecase) ResolveDownload(jobID, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &downloadClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return u.signingSecret, nil
	})
	if err != nil {
		return "", errors.New("invalid or expired download link")
	}

	claims, ok := token.Claims.(*downloadClaims)
	if !ok || claims.JobID != jobID {
		return "", errors.New("download link does not match this export")
	}

	return filepath.Join(u.exportDir, claims.FileName), nil
}

func (u *exportUsecase) notify(ownerEmail, jobID string) {
	if u.eventService == nil {
		return
	}
	job, err := u.jobRepo.FindByID(jobID)
	if err != nil || job == nil {
		return
	}
	u.eventService.SendToUser(ownerEmail, "export_updated", job)
}
