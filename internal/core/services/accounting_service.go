package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/middleware"
)

var (
	// ErrAlreadyTransferred indicates a journal was already transferred to
	// the general ledger. Duplicate posting is a caller-logic error and is
	// not retried.
	ErrAlreadyTransferred = errors.New("journal already transferred to the general ledger")

	// ErrUnbalancedJournal indicates the engine would have persisted a
	// journal whose debits and credits do not match. This must never happen
	// after segment balancing and is always fatal.
	ErrUnbalancedJournal = errors.New("journal lines do not balance")
)

// glJournalSource tags GL journals produced by this engine.
const glJournalSource = "SLA"

// AccountingOptions carries the configurable account templates of the engine.
// Zero values fall back to the built-in defaults.
type AccountingOptions struct {
	SuspenseSegments               string
	IntercompanyPayableSegments    string
	IntercompanyReceivableSegments string
}

// accountingService is the subledger accounting engine: it turns business
// events into balanced draft journals and transfers finalized journals to
// the general ledger.
type accountingService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	ledgerSvc   portssvc.LedgerSvcFacade
	builder     *lineBuilder
	balancer    *segmentBalancer
}

// NewAccountingService creates the accounting engine.
func NewAccountingService(
	journalRepo portsrepo.JournalRepositoryFacade,
	ruleRepo portsrepo.RuleReader,
	ledgerSvc portssvc.LedgerSvcFacade,
	opts AccountingOptions,
) portssvc.AccountingSvcFacade {
	resolver := newAccountResolver(ruleRepo, ledgerSvc, opts.SuspenseSegments)
	return &accountingService{
		journalRepo: journalRepo,
		ledgerSvc:   ledgerSvc,
		builder:     newLineBuilder(resolver),
		balancer:    newSegmentBalancer(ledgerSvc, opts.IntercompanyPayableSegments, opts.IntercompanyReceivableSegments),
	}
}

var _ portssvc.AccountingSvcFacade = (*accountingService)(nil)

// CreateAccounting turns a business event into a balanced, persisted draft
// journal. Implements portssvc.AccountingWriterSvc.
func (s *accountingService) CreateAccounting(ctx context.Context, event domain.Event, actorID string) (*domain.JournalHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := event.Validate(); err != nil {
		return nil, err
	}

	draftLines, err := s.builder.BuildLines(ctx, event)
	if err != nil {
		logger.Error("Failed to build journal lines", slog.String("error", err.Error()), slog.String("event_class", string(event.EventClass)))
		return nil, err
	}
	if len(draftLines) == 0 {
		// Unknown event class: a configuration gap, not an error.
		return nil, nil
	}

	balancedLines, err := s.balancer.Balance(ctx, event.LedgerID, draftLines)
	if err != nil {
		logger.Error("Failed to balance journal lines", slog.String("error", err.Error()), slog.String("event_class", string(event.EventClass)))
		return nil, err
	}

	if err := checkBalanced(balancedLines); err != nil {
		logger.Error("Journal unbalanced after segment balancing", slog.String("error", err.Error()), slog.String("event_class", string(event.EventClass)))
		return nil, err
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	header := domain.JournalHeader{
		JournalID:      journalID,
		LedgerID:       event.LedgerID,
		EventClass:     event.EventClass,
		EntityID:       event.EntityID,
		EntityTable:    event.EntityTable,
		EventDate:      event.EventDate,
		GLDate:         event.GLDate,
		CurrencyCode:   event.CurrencyCode,
		Description:    event.Description,
		Status:         domain.StatusDraft,
		TransferStatus: domain.TransferPending,
		AuditFields:    audit,
	}

	lines := make([]domain.JournalLine, len(balancedLines))
	for i, draft := range balancedLines {
		lines[i] = domain.JournalLine{
			LineID:            uuid.NewString(),
			JournalID:         journalID,
			LineNumber:        i + 1,
			AccountingClass:   draft.AccountingClass,
			CodeCombinationID: draft.Account.CodeCombinationID,
			Side:              draft.Side,
			Amount:            draft.Amount,
			CurrencyCode:      event.CurrencyCode,
			Description:       event.Description,
			AuditFields:       audit,
		}
	}

	if err := s.journalRepo.SaveJournal(ctx, header, lines); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Accounting created",
		slog.String("journal_id", journalID),
		slog.String("event_class", string(event.EventClass)),
		slog.String("entity_id", event.EntityID),
		slog.Int("line_count", len(lines)))

	header.Lines = lines
	return &header, nil
}

// checkBalanced verifies total debits equal total credits within the rounding
// epsilon.
func checkBalanced(lines []DraftLine) error {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if line.Side == domain.Debit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
	}
	if debits.Sub(credits).Abs().GreaterThan(balancingEpsilon) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s", ErrUnbalancedJournal, debits.String(), credits.String())
	}
	return nil
}

// PostToGL transfers a draft journal to the general ledger. The transfer
// guard is re-checked inside the repository transaction, so a concurrent
// duplicate attempt fails with ErrAlreadyTransferred and exactly one GL
// journal is ever created. Implements portssvc.AccountingWriterSvc.
func (s *accountingService) PostToGL(ctx context.Context, journalID, actorID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	header, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal for GL transfer", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return "", err
	}
	// Fast pre-check; the authoritative check happens under the row lock.
	if header.TransferStatus == domain.TransferTransferred {
		return "", fmt.Errorf("%w: journal %s", ErrAlreadyTransferred, journalID)
	}

	now := time.Now().UTC()
	glJournalID, err := s.journalRepo.TransferJournal(ctx, journalID, actorID, now,
		func(ctx context.Context, tx pgx.Tx, header domain.JournalHeader, lines []domain.JournalLine) (string, error) {
			glJournal, err := s.buildGLJournal(header, lines, actorID, now)
			if err != nil {
				return "", err
			}
			return s.ledgerSvc.CreateJournal(ctx, tx, glJournal)
		})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return "", fmt.Errorf("%w: journal %s", ErrAlreadyTransferred, journalID)
		}
		logger.Error("Failed to transfer journal to GL", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return "", err
	}

	logger.Info("Journal transferred to GL",
		slog.String("journal_id", journalID),
		slog.String("gl_journal_id", glJournalID),
		slog.String("actor_id", actorID))
	return glJournalID, nil
}

// buildGLJournal reshapes subledger lines into the ledger collaborator's
// journal format: one net debit or credit per account.
func (s *accountingService) buildGLJournal(header domain.JournalHeader, lines []domain.JournalLine, actorID string, now time.Time) (domain.GLJournal, error) {
	nets := make(map[string]decimal.Decimal)
	for _, line := range lines {
		net := nets[line.CodeCombinationID]
		if line.Side == domain.Debit {
			net = net.Add(line.Amount)
		} else {
			net = net.Sub(line.Amount)
		}
		nets[line.CodeCombinationID] = net
	}

	accountIDs := make([]string, 0, len(nets))
	for id := range nets {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	glJournalID := uuid.NewString()
	glJournal := domain.GLJournal{
		GLJournalID: glJournalID,
		LedgerID:    header.LedgerID,
		Period:      header.GLDate.Format("2006-01"),
		Source:      glJournalSource,
		Description: header.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	for _, accountID := range accountIDs {
		net := nets[accountID]
		if net.IsZero() {
			continue
		}
		glLine := domain.GLJournalLine{
			GLJournalLineID:   uuid.NewString(),
			GLJournalID:       glJournalID,
			CodeCombinationID: accountID,
			CurrencyCode:      header.CurrencyCode,
		}
		if net.IsPositive() {
			glLine.AccountedDr = net
		} else {
			glLine.AccountedCr = net.Abs()
		}
		glJournal.Lines = append(glJournal.Lines, glLine)
	}
	return glJournal, nil
}

// GetJournalByID retrieves a journal header with its lines. Implements
// portssvc.AccountingReaderSvc.
func (s *accountingService) GetJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	header, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal by ID", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch journal lines", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, apperrors.ErrInternal)
	}
	header.Lines = lines
	return header, nil
}

// ListJournals retrieves journal headers for a ledger, newest first.
// Implements portssvc.AccountingReaderSvc.
func (s *accountingService) ListJournals(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalHeader, error) {
	if ledgerID == "" {
		return nil, fmt.Errorf("%w: ledger ID is required", apperrors.ErrValidation)
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.journalRepo.ListJournalsByLedger(ctx, ledgerID, limit, offset)
}
