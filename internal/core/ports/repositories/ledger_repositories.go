package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
)

// LedgerRepositoryFacade defines persistence operations for the general
// ledger collaborator: chart-of-accounts lookup/provisioning and GL journal
// creation.
type LedgerRepositoryFacade interface {
	// GetOrCreateCodeCombination resolves a code combination by ledger and
	// segment string, lazily provisioning it when absent. Safe under
	// concurrent callers for the same segment string.
	GetOrCreateCodeCombination(ctx context.Context, ledgerID, segments string) (domain.CodeCombination, error)

	// FindCodeCombinationByID retrieves a code combination by its identifier.
	FindCodeCombinationByID(ctx context.Context, codeCombinationID string) (*domain.CodeCombination, error)

	// FindCodeCombinationsByIDs retrieves multiple code combinations keyed by ID.
	FindCodeCombinationsByIDs(ctx context.Context, codeCombinationIDs []string) (map[string]domain.CodeCombination, error)

	// CreateGLJournalInTx inserts a GL journal and its lines using the
	// caller's transaction.
	CreateGLJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.GLJournal) error
}
