package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"
	"etsy-scanner-backend/internal/order/parser"
	"etsy-scanner-backend/internal/order/repository"
)

// ErrScanInProgress is returned when a scan is requested for an owner whose
// previous scan has not finished. The scan machine is re-entrant only from idle.
var ErrScanInProgress = errors.New("a scan is already in progress for this account")

// DefaultBatchSize bounds how many messages are processed concurrently
// before the next batch starts.
const DefaultBatchSize = 20

// EventService defines interface for sending progress notifications
type EventService interface {
	SendToUser(userID string, eventType string, payload interface{})
}

// scanSession holds the per-owner state machine and counters for one scan.
// Counters are folded in once per batch, under the mutex, so the totals are
// exact regardless of intra-batch completion order.
type scanSession struct {
	mu        sync.Mutex
	state     ScanState
	busy      bool
	current   int
	total     int
	processed int
	skipped   int
	failed    int
	errMsg    string
}

func (s *scanSession) snapshot() ScanProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ScanProgress{
		State:     s.state,
		Current:   s.current,
		Total:     s.total,
		Processed: s.processed,
		Skipped:   s.skipped,
		Failed:    s.failed,
		Error:     s.errMsg,
	}
}

// scanUsecase implements ScanUsecase
type scanUsecase struct {
	orderRepo    repository.OrderRepository
	metadataRepo repository.ScanMetadataRepository
	mailProvider orderdomain.MailProvider
	eventService EventService
	batchSize    int

	sessionsMu sync.Mutex
	sessions   map[string]*scanSession
}

// NewScanUsecase creates a new instance of scanUsecase
func NewScanUsecase(orderRepo repository.OrderRepository, metadataRepo repository.ScanMetadataRepository, mailProvider orderdomain.MailProvider, batchSize int) ScanUsecase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &scanUsecase{
		orderRepo:    orderRepo,
		metadataRepo: metadataRepo,
		mailProvider: mailProvider,
		batchSize:    batchSize,
		sessions:     make(map[string]*scanSession),
	}
}

// SetEventService allows wiring EventService after creation
func (u *scanUsecase) SetEventService(svc EventService) {
	u.eventService = svc
}

func (u *scanUsecase) ResolveOwner(ctx context.Context, accessToken, refreshToken string) (string, error) {
	return u.mailProvider.GetProfileEmail(ctx, accessToken, refreshToken, nil)
}

func (u *scanUsecase) StartScan(ctx context.Context, ownerEmail, accessToken, refreshToken string) error {
	session, err := u.beginSession(ownerEmail)
	if err != nil {
		return err
	}

	go func() {
		// Detached from the request context: a scan runs to completion or to
		// a scan-wide failure, cancellation mid-scan is not supported.
		if _, err := u.runScan(context.Background(), session, ownerEmail, accessToken, refreshToken); err != nil {
			log.Printf("[Scan] Scan failed for %s: %v", ownerEmail, err)
		}
	}()

	return nil
}

func (u *scanUsecase) Scan(ctx context.Context, ownerEmail, accessToken, refreshToken string) (*ScanOutcome, error) {
	session, err := u.beginSession(ownerEmail)
	if err != nil {
		return nil, err
	}
	return u.runScan(ctx, session, ownerEmail, accessToken, refreshToken)
}

func (u *scanUsecase) Status(ownerEmail string) ScanProgress {
	u.sessionsMu.Lock()
	session, ok := u.sessions[ownerEmail]
	u.sessionsMu.Unlock()

	if !ok {
		return ScanProgress{State: ScanStateIdle}
	}
	return session.snapshot()
}

func (u *scanUsecase) GetOrders(ownerEmail string, limit, offset int) ([]*orderdomain.OrderRecord, int64, error) {
	total, err := u.orderRepo.CountByOwner(ownerEmail)
	if err != nil {
		return nil, 0, err
	}
	orders, err := u.orderRepo.FindByOwner(ownerEmail, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// beginSession claims the owner's busy flag. Only one scan per owner may run;
// a second request while busy is rejected, not queued.
func (u *scanUsecase) beginSession(ownerEmail string) (*scanSession, error) {
	u.sessionsMu.Lock()
	defer u.sessionsMu.Unlock()

	session, ok := u.sessions[ownerEmail]
	if !ok {
		session = &scanSession{state: ScanStateIdle}
		u.sessions[ownerEmail] = session
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.busy {
		return nil, ErrScanInProgress
	}

	session.busy = true
	session.state = ScanStatePlanning
	session.current = 0
	session.total = 0
	session.processed = 0
	session.skipped = 0
	session.failed = 0
	session.errMsg = ""
	return session, nil
}

// runScan drives the state machine end to end:
// planning -> fetching-list -> processing-batches -> finalizing -> idle,
// or failed on a scan-wide error.
func (u *scanUsecase) runScan(ctx context.Context, session *scanSession, ownerEmail, accessToken, refreshToken string) (*ScanOutcome, error) {
	queries, err := u.planQueries(ownerEmail)
	if err != nil {
		return nil, u.failScan(session, ownerEmail, fmt.Errorf("planning failed: %w", err))
	}

	u.setState(session, ScanStateFetching)
	var refs []orderdomain.MessageRef
	for _, q := range queries {
		log.Printf("[Scan] %s: running %s query", ownerEmail, q.Label)
		matches, err := u.mailProvider.SearchMessageIDs(ctx, accessToken, refreshToken, q.Query, nil)
		if err != nil {
			return nil, u.failScan(session, ownerEmail, fmt.Errorf("listing failed (%s): %w", q.Label, err))
		}
		refs = append(refs, matches...)
	}

	session.mu.Lock()
	session.total = len(refs)
	session.mu.Unlock()
	log.Printf("[Scan] %s: %d messages to process", ownerEmail, len(refs))

	if len(refs) > 0 {
		u.setState(session, ScanStateProcessing)
		for start := 0; start < len(refs); start += u.batchSize {
			end := start + u.batchSize
			if end > len(refs) {
				end = len(refs)
			}
			u.processBatch(ctx, session, ownerEmail, accessToken, refreshToken, refs[start:end])
			u.publishProgress(session, ownerEmail)
		}
	}

	u.setState(session, ScanStateFinalizing)
	if err := u.metadataRepo.TouchLastScanned(ownerEmail, time.Now()); err != nil {
		log.Printf("[Scan] %s: failed to record scan completion: %v", ownerEmail, err)
	}

	orders, err := u.orderRepo.FindByOwner(ownerEmail, 0, 0)
	if err != nil {
		return nil, u.failScan(session, ownerEmail, fmt.Errorf("reloading orders failed: %w", err))
	}

	session.mu.Lock()
	session.state = ScanStateIdle
	session.busy = false
	session.mu.Unlock()

	outcome := &ScanOutcome{Progress: session.snapshot(), Orders: orders}
	if u.eventService != nil {
		u.eventService.SendToUser(ownerEmail, "scan_completed", outcome.Progress)
	}
	log.Printf("[Scan] %s: done (processed=%d skipped=%d failed=%d)",
		ownerEmail, outcome.Progress.Processed, outcome.Progress.Skipped, outcome.Progress.Failed)
	return outcome, nil
}

// planQueries loads the owner's history boundaries and scan metadata, lazily
// creating the metadata with the default lookback on a first-ever scan.
func (u *scanUsecase) planQueries(ownerEmail string) ([]SearchQuery, error) {
	metadata, err := u.metadataRepo.GetByOwner(ownerEmail)
	if err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = &orderdomain.ScanMetadata{
			OwnerEmail:       ownerEmail,
			GlobalOldestDate: DefaultGlobalOldestDate(time.Now()),
		}
		if err := u.metadataRepo.Create(metadata); err != nil {
			return nil, err
		}
	}

	newest, err := u.orderRepo.NewestOrderDate(ownerEmail)
	if err != nil {
		return nil, err
	}
	oldest, err := u.orderRepo.OldestOrderDate(ownerEmail)
	if err != nil {
		return nil, err
	}

	return PlanQueries(metadata, newest, oldest), nil
}

type messageOutcome int

const (
	outcomeProcessed messageOutcome = iota
	outcomeSkipped
	outcomeRejected
	outcomeFailed
)

// processBatch fans out every message in the batch concurrently, joins, and
// folds the collected outcomes into the session counters in one step.
func (u *scanUsecase) processBatch(ctx context.Context, session *scanSession, ownerEmail, accessToken, refreshToken string, batch []orderdomain.MessageRef) {
	outcomes := make([]messageOutcome, len(batch))

	var wg sync.WaitGroup
	for i, ref := range batch {
		wg.Add(1)
		go func(i int, ref orderdomain.MessageRef) {
			defer wg.Done()
			outcomes[i] = u.processMessage(ctx, ownerEmail, accessToken, refreshToken, ref)
		}(i, ref)
	}
	wg.Wait()

	session.mu.Lock()
	defer session.mu.Unlock()
	for _, outcome := range outcomes {
		session.current++
		switch outcome {
		case outcomeProcessed:
			session.processed++
		case outcomeSkipped:
			session.skipped++
		case outcomeFailed:
			session.failed++
		}
		// Rejected messages advance current only: a missing order id or buyer
		// email is a deliberate null result, not a failure.
	}
}

// processMessage handles one message in isolation. Every internal failure is
// caught and counted here; nothing a single message does can abort the batch.
func (u *scanUsecase) processMessage(ctx context.Context, ownerEmail, accessToken, refreshToken string, ref orderdomain.MessageRef) messageOutcome {
	msg, err := u.mailProvider.GetMessage(ctx, accessToken, refreshToken, ref.ID, nil)
	if err != nil {
		log.Printf("[Scan] %s: failed to fetch message %s: %v", ownerEmail, ref.ID, err)
		return outcomeFailed
	}

	record := parser.ParseOrderMessage(msg, ownerEmail, time.Now())
	if record == nil {
		return outcomeRejected
	}

	exists, err := u.orderRepo.ExistsByOrderID(ownerEmail, record.OrderID)
	if err != nil {
		log.Printf("[Scan] %s: dedup check failed for order %s: %v", ownerEmail, record.OrderID, err)
		return outcomeFailed
	}
	if exists {
		return outcomeSkipped
	}

	inserted, err := u.orderRepo.InsertIgnoreDuplicate(record)
	if err != nil {
		log.Printf("[Scan] %s: failed to persist order %s: %v", ownerEmail, record.OrderID, err)
		return outcomeFailed
	}
	if !inserted {
		// A concurrent batch member persisted the same order first.
		return outcomeSkipped
	}
	return outcomeProcessed
}

func (u *scanUsecase) setState(session *scanSession, state ScanState) {
	session.mu.Lock()
	session.state = state
	session.mu.Unlock()
}

func (u *scanUsecase) publishProgress(session *scanSession, ownerEmail string) {
	progress := session.snapshot()
	log.Printf("[Scan] %s: progress %d/%d (processed=%d skipped=%d failed=%d)",
		ownerEmail, progress.Current, progress.Total, progress.Processed, progress.Skipped, progress.Failed)
	if u.eventService != nil {
		u.eventService.SendToUser(ownerEmail, "scan_progress", progress)
	}
}

// failScan records the diagnostic, preserves the counters accumulated so far
// and releases the busy flag.
func (u *scanUsecase) failScan(session *scanSession, ownerEmail string, err error) error {
	session.mu.Lock()
	session.state = ScanStateFailed
	session.errMsg = err.Error()
	session.busy = false
	session.mu.Unlock()

	if u.eventService != nil {
		u.eventService.SendToUser(ownerEmail, "scan_failed", session.snapshot())
	}
	return err
}
