package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
)

// CreateGLJournalFunc creates the general-ledger journal for a transfer and
// returns its ID. It runs inside the same database transaction that flips the
// header's transfer status, so a failed GL creation rolls the whole transfer
// back.
type CreateGLJournalFunc func(ctx context.Context, tx pgx.Tx, header domain.JournalHeader, lines []domain.JournalLine) (string, error)

// JournalReader defines read operations for subledger journal data.
type JournalReader interface {
	// FindJournalByID retrieves a journal header by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error)

	// FindLinesByJournalID retrieves all lines of a journal ordered by line number.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListJournalsByLedger retrieves journal headers for a ledger, newest first.
	ListJournalsByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalHeader, error)
}

// JournalWriter defines write operations for subledger journal data.
type JournalWriter interface {
	// SaveJournal persists a header and all of its lines as one atomic unit.
	SaveJournal(ctx context.Context, header domain.JournalHeader, lines []domain.JournalLine) error

	// TransferJournal marks a journal as transferred. It locks the header,
	// re-checks the transfer status inside the transaction (returning
	// apperrors.ErrConflict when already transferred), invokes createGL to
	// produce the GL journal, and stores the returned reference on the
	// header. Returns the GL journal ID.
	TransferJournal(ctx context.Context, journalID, actorID string, now time.Time, createGL CreateGLJournalFunc) (string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
