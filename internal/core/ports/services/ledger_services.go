package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
)

// LedgerSvcFacade is the general-ledger collaborator consumed by the
// accounting engine. The engine never creates accounts or GL journals
// directly; it always goes through this interface.
type LedgerSvcFacade interface {
	// GetOrCreateCodeCombination resolves or lazily provisions a ledger
	// account from a segment string.
	GetOrCreateCodeCombination(ctx context.Context, ledgerID, segments string) (domain.CodeCombination, error)

	// FindCodeCombinationByID retrieves an account by its identifier.
	FindCodeCombinationByID(ctx context.Context, codeCombinationID string) (*domain.CodeCombination, error)

	// FindCodeCombinationsByIDs retrieves multiple accounts keyed by ID.
	FindCodeCombinationsByIDs(ctx context.Context, codeCombinationIDs []string) (map[string]domain.CodeCombination, error)

	// CreateJournal posts a finalized set of net debit/credit lines as a GL
	// journal using the caller's transaction, returning the GL journal ID.
	CreateJournal(ctx context.Context, tx pgx.Tx, journal domain.GLJournal) (string, error)
}
