package usecase

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	exportdomain "etsy-scanner-backend/internal/export/domain"
	orderdomain "etsy-scanner-backend/internal/order/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrderRepo serves a fixed, newest-first order list page by page.
type stubOrderRepo struct {
	mu         sync.Mutex
	orders     []*orderdomain.OrderRecord
	fetchPages int
	countErr   error
}

func (r *stubOrderRepo) InsertIgnoreDuplicate(order *orderdomain.OrderRecord) (bool, error) {
	return false, fmt.Errorf("not used")
}

func (r *stubOrderRepo) ExistsByOrderID(ownerEmail, orderID string) (bool, error) {
	return false, fmt.Errorf("not used")
}

func (r *stubOrderRepo) NewestOrderDate(ownerEmail string) (*time.Time, error) { return nil, nil }
func (r *stubOrderRepo) OldestOrderDate(ownerEmail string) (*time.Time, error) { return nil, nil }

func (r *stubOrderRepo) FindByOwner(ownerEmail string, limit, offset int) ([]*orderdomain.OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchPages++
	if offset >= len(r.orders) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.orders) {
		end = len(r.orders)
	}
	return r.orders[offset:end], nil
}

func (r *stubOrderRepo) CountByOwner(ownerEmail string) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.orders)), nil
}

// stubJobRepo keeps jobs in memory and records every progress update.
type stubJobRepo struct {
	mu       sync.Mutex
	jobs     map[string]*exportdomain.ExportJob
	progress [][2]int
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]*exportdomain.ExportJob)}
}

func (r *stubJobRepo) Create(job *exportdomain.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = exportdomain.ExportStatusPending
	}
	job.CreatedAt = time.Now()
	r.jobs[job.ID] = job
	return nil
}

func (r *stubJobRepo) FindByID(id string) (*exportdomain.ExportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (r *stubJobRepo) FindByOwner(ownerEmail string) ([]*exportdomain.ExportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*exportdomain.ExportJob
	for _, job := range r.jobs {
		if job.OwnerEmail == ownerEmail {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *stubJobRepo) MarkProcessing(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id].Status = exportdomain.ExportStatusProcessing
	return nil
}

func (r *stubJobRepo) UpdateProgress(id string, current, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, [2]int{current, total})
	r.jobs[id].ProgressCurrent = current
	r.jobs[id].ProgressTotal = total
	return nil
}

func (r *stubJobRepo) MarkCompleted(id, fileName, fileURL string, totalOrders int, rangeStart, rangeEnd *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := r.jobs[id]
	job.Status = exportdomain.ExportStatusCompleted
	job.FileName = fileName
	job.FileURL = fileURL
	job.TotalOrders = totalOrders
	job.DateRangeStart = rangeStart
	job.DateRangeEnd = rangeEnd
	now := time.Now()
	job.CompletedAt = &now
	return nil
}

func (r *stubJobRepo) MarkFailed(id, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := r.jobs[id]
	job.Status = exportdomain.ExportStatusFailed
	job.ErrorMessage = errorMessage
	now := time.Now()
	job.CompletedAt = &now
	return nil
}

func generateOrders(count int) []*orderdomain.OrderRecord {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]*orderdomain.OrderRecord, count)
	for i := 0; i < count; i++ {
		// Newest first, matching the repository's ordering.
		orders[i] = &orderdomain.OrderRecord{
			OrderID:     fmt.Sprintf("%d", 50000+count-i),
			OwnerEmail:  "owner@shop.com",
			BuyerEmail:  fmt.Sprintf("buyer%d@example.com", i),
			ProductName: "Widget",
			ShopName:    "CraftCo",
			OrderDate:   base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return orders
}

func newTestExportUsecase(t *testing.T, orderRepo *stubOrderRepo, jobRepo *stubJobRepo) *exportUsecase {
	t.Helper()
	uc := NewExportUsecase(jobRepo, orderRepo, t.TempDir(), "test-secret", 1).(*exportUsecase)
	return uc
}

func TestExportPaginatesAndReportsProgress(t *testing.T) {
	orderRepo := &stubOrderRepo{orders: generateOrders(1500)}
	jobRepo := newStubJobRepo()
	uc := newTestExportUsecase(t, orderRepo, jobRepo)

	job := &exportdomain.ExportJob{OwnerEmail: "owner@shop.com"}
	require.NoError(t, jobRepo.Create(job))

	uc.processJob(job.ID)

	done, err := jobRepo.FindByID(job.ID)
	require.NoError(t, err)
	require.Equal(t, exportdomain.ExportStatusCompleted, done.Status)

	// 1500 orders at page size 1000 -> two fetch pages.
	assert.Equal(t, 2, orderRepo.fetchPages)
	require.Len(t, jobRepo.progress, 2)
	assert.Equal(t, [2]int{1000, 1500}, jobRepo.progress[0])
	assert.Equal(t, [2]int{1500, 1500}, jobRepo.progress[1])
	assert.Equal(t, 1500, done.ProgressCurrent)
	assert.Equal(t, 1500, done.ProgressTotal)
	assert.Equal(t, 1500, done.TotalOrders)

	require.NotNil(t, done.DateRangeStart)
	require.NotNil(t, done.DateRangeEnd)
	assert.True(t, done.DateRangeEnd.After(*done.DateRangeStart))

	// The written file holds header + 1500 rows.
	filePath, err := uc.ResolveDownload(job.ID, strings.TrimPrefix(done.FileURL, fmt.Sprintf("/api/exports/%s/download?token=", job.ID)))
	require.NoError(t, err)
	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, 1501, len(strings.Split(string(data), "\n")))
}

func TestExportFailureMarksJobFailed(t *testing.T) {
	orderRepo := &stubOrderRepo{countErr: fmt.Errorf("storage unavailable")}
	jobRepo := newStubJobRepo()
	uc := newTestExportUsecase(t, orderRepo, jobRepo)

	job := &exportdomain.ExportJob{OwnerEmail: "owner@shop.com"}
	require.NoError(t, jobRepo.Create(job))

	uc.processJob(job.ID)

	failed, err := jobRepo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, exportdomain.ExportStatusFailed, failed.Status)
	assert.Contains(t, failed.ErrorMessage, "storage unavailable")
	assert.Empty(t, failed.FileName)
	assert.Empty(t, failed.FileURL)
}

func TestResolveDownloadRejectsForeignToken(t *testing.T) {
	orderRepo := &stubOrderRepo{orders: generateOrders(1)}
	jobRepo := newStubJobRepo()
	uc := newTestExportUsecase(t, orderRepo, jobRepo)

	token, err := uc.signDownloadToken("job-a", "owner@shop.com/file.csv")
	require.NoError(t, err)

	_, err = uc.ResolveDownload("job-b", token)
	assert.Error(t, err)

	_, err = uc.ResolveDownload("job-a", "garbage")
	assert.Error(t, err)
}

func TestCreateExportEnqueuesPendingJob(t *testing.T) {
	orderRepo := &stubOrderRepo{orders: generateOrders(3)}
	jobRepo := newStubJobRepo()
	uc := newTestExportUsecase(t, orderRepo, jobRepo)

	job, err := uc.CreateExport("owner@shop.com")
	require.NoError(t, err)
	assert.Equal(t, exportdomain.ExportStatusPending, job.Status)
	assert.NotEmpty(t, job.ID)

	jobs, err := uc.ListExports("owner@shop.com")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
