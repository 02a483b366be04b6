package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
)

// ledgerService is the general-ledger collaborator: chart-of-accounts
// lookup/provisioning with a concurrent-safe cache, and GL journal creation.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade

	// accountCache maps ledgerID|segments to a resolved combination. Safe
	// for concurrent get-or-create; duplicate provisioning races settle in
	// the repository's upsert.
	accountCache sync.Map
}

// NewLedgerService creates the ledger collaborator service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetOrCreateCodeCombination resolves or lazily provisions an account from a
// segment string. Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) GetOrCreateCodeCombination(ctx context.Context, ledgerID, segments string) (domain.CodeCombination, error) {
	if ledgerID == "" {
		return domain.CodeCombination{}, fmt.Errorf("%w: ledger ID is required", apperrors.ErrValidation)
	}
	if !domain.IsSegmentString(segments) {
		return domain.CodeCombination{}, fmt.Errorf("%w: %q is not a segment string", apperrors.ErrValidation, segments)
	}

	cacheKey := ledgerID + "|" + segments
	if cached, ok := s.accountCache.Load(cacheKey); ok {
		return cached.(domain.CodeCombination), nil
	}

	account, err := s.ledgerRepo.GetOrCreateCodeCombination(ctx, ledgerID, segments)
	if err != nil {
		return domain.CodeCombination{}, err
	}
	s.accountCache.Store(cacheKey, account)
	return account, nil
}

// FindCodeCombinationByID retrieves an account by its identifier. Implements
// portssvc.LedgerSvcFacade.
func (s *ledgerService) FindCodeCombinationByID(ctx context.Context, codeCombinationID string) (*domain.CodeCombination, error) {
	return s.ledgerRepo.FindCodeCombinationByID(ctx, codeCombinationID)
}

// FindCodeCombinationsByIDs retrieves multiple accounts keyed by ID.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) FindCodeCombinationsByIDs(ctx context.Context, codeCombinationIDs []string) (map[string]domain.CodeCombination, error) {
	return s.ledgerRepo.FindCodeCombinationsByIDs(ctx, codeCombinationIDs)
}

// CreateJournal posts a GL journal using the caller's transaction. The
// collaborator refuses unbalanced journals outright.
func (s *ledgerService) CreateJournal(ctx context.Context, tx pgx.Tx, journal domain.GLJournal) (string, error) {
	if journal.LedgerID == "" {
		return "", fmt.Errorf("%w: ledger ID is required", apperrors.ErrValidation)
	}
	if len(journal.Lines) == 0 {
		return "", fmt.Errorf("%w: GL journal must have at least one line", apperrors.ErrValidation)
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range journal.Lines {
		debits = debits.Add(line.AccountedDr)
		credits = credits.Add(line.AccountedCr)
	}
	if debits.Sub(credits).Abs().GreaterThan(balancingEpsilon) {
		return "", fmt.Errorf("%w: GL journal debits %s do not match credits %s", apperrors.ErrValidation, debits.String(), credits.String())
	}

	if err := s.ledgerRepo.CreateGLJournalInTx(ctx, tx, journal); err != nil {
		return "", fmt.Errorf("failed to create GL journal: %w", err)
	}
	return journal.GLJournalID, nil
}
