package services

import (
	"context"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
)

// AccountingWriterSvc defines the operations originating modules invoke.
type AccountingWriterSvc interface {
	// CreateAccounting turns a business event into a balanced draft journal
	// and persists it. Returns (nil, nil) for event classes without an
	// accounting template.
	CreateAccounting(ctx context.Context, event domain.Event, actorID string) (*domain.JournalHeader, error)

	// PostToGL transfers a draft journal to the general ledger and returns
	// the GL journal ID. Fails with ErrAlreadyTransferred when the journal
	// was transferred before, and apperrors.ErrNotFound when it does not
	// exist.
	PostToGL(ctx context.Context, journalID, actorID string) (string, error)
}

// AccountingReaderSvc defines read operations for subledger journals.
type AccountingReaderSvc interface {
	// GetJournalByID retrieves a journal header with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error)

	// ListJournals retrieves journal headers for a ledger, newest first.
	ListJournals(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalHeader, error)
}

// AccountingSvcFacade combines the accounting engine's exposed interfaces.
type AccountingSvcFacade interface {
	AccountingWriterSvc
	AccountingReaderSvc
}
