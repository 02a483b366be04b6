package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/models"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/utils/mapping"
)

// PgxJournalRepository persists subledger journal headers and lines.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalHeaderColumns = `
	journal_id, ledger_id, event_class, entity_id, entity_table,
	event_date, gl_date, currency_code, description, status,
	transfer_status, gl_journal_id,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveJournal inserts a header and all of its lines inside one database
// transaction, so a journal is either fully written or not at all.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, header domain.JournalHeader, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelHeader := mapping.ToModelJournalHeader(header)
	headerQuery := `
		INSERT INTO sla_journal_headers (
			journal_id, ledger_id, event_class, entity_id, entity_table,
			event_date, gl_date, currency_code, description, status,
			transfer_status, gl_journal_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, headerQuery,
		modelHeader.JournalID,
		modelHeader.LedgerID,
		modelHeader.EventClass,
		modelHeader.EntityID,
		modelHeader.EntityTable,
		modelHeader.EventDate,
		modelHeader.GLDate,
		modelHeader.CurrencyCode,
		modelHeader.Description,
		modelHeader.Status,
		modelHeader.TransferStatus,
		modelHeader.GLJournalID,
		modelHeader.CreatedAt,
		modelHeader.CreatedBy,
		modelHeader.LastUpdatedAt,
		modelHeader.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal header "+modelHeader.JournalID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO sla_journal_lines (
			line_id, journal_id, line_number, accounting_class, code_combination_id,
			entered_dr, entered_cr, currency_code, description,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.JournalID,
			modelLine.LineNumber,
			modelLine.AccountingClass,
			modelLine.CodeCombinationID,
			modelLine.EnteredDr,
			modelLine.EnteredCr,
			modelLine.CurrencyCode,
			modelLine.Description,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+modelHeader.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// FindJournalByID retrieves a journal header by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error) {
	return r.findJournal(ctx, r.Pool, journalID, "")
}

// findJournal loads one header, optionally with a locking clause, from the
// pool or an open transaction.
func (r *PgxJournalRepository) findJournal(ctx context.Context, q querier, journalID, lockClause string) (*domain.JournalHeader, error) {
	query := `SELECT ` + journalHeaderColumns + ` FROM sla_journal_headers WHERE journal_id = $1 ` + lockClause

	var m models.JournalHeader
	err := q.QueryRow(ctx, query, journalID).Scan(
		&m.JournalID,
		&m.LedgerID,
		&m.EventClass,
		&m.EntityID,
		&m.EntityTable,
		&m.EventDate,
		&m.GLDate,
		&m.CurrencyCode,
		&m.Description,
		&m.Status,
		&m.TransferStatus,
		&m.GLJournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("journal %s: %w", journalID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find journal "+journalID, err)
	}

	header := mapping.ToDomainJournalHeader(m)
	return &header, nil
}

// FindLinesByJournalID retrieves all lines of a journal ordered by line number.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	return r.findLines(ctx, r.Pool, journalID)
}

func (r *PgxJournalRepository) findLines(ctx context.Context, q querier, journalID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, journal_id, line_number, accounting_class, code_combination_id,
		       entered_dr, entered_cr, currency_code, description,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM sla_journal_lines
		WHERE journal_id = $1
		ORDER BY line_number;
	`
	rows, err := q.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(
			&m.LineID,
			&m.JournalID,
			&m.LineNumber,
			&m.AccountingClass,
			&m.CodeCombinationID,
			&m.EnteredDr,
			&m.EnteredCr,
			&m.CurrencyCode,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line for journal "+journalID, err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read lines for journal "+journalID, err)
	}
	return lines, nil
}

// ListJournalsByLedger retrieves journal headers for a ledger, newest first.
func (r *PgxJournalRepository) ListJournalsByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalHeader, error) {
	query := `
		SELECT ` + journalHeaderColumns + `
		FROM sla_journal_headers
		WHERE ledger_id = $1
		ORDER BY created_at DESC, journal_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list journals for ledger "+ledgerID, err)
	}
	defer rows.Close()

	var headers []domain.JournalHeader
	for rows.Next() {
		var m models.JournalHeader
		if err := rows.Scan(
			&m.JournalID,
			&m.LedgerID,
			&m.EventClass,
			&m.EntityID,
			&m.EntityTable,
			&m.EventDate,
			&m.GLDate,
			&m.CurrencyCode,
			&m.Description,
			&m.Status,
			&m.TransferStatus,
			&m.GLJournalID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal for ledger "+ledgerID, err)
		}
		headers = append(headers, mapping.ToDomainJournalHeader(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read journals for ledger "+ledgerID, err)
	}
	return headers, nil
}

// TransferJournal marks a journal as transferred. The header is locked and
// its transfer status re-checked inside the transaction, which closes the
// race where two concurrent posting attempts both pass the caller's guard.
// The GL journal is created by createGL on the same transaction, so a failed
// collaborator call rolls everything back and a retry is a correct recovery.
func (r *PgxJournalRepository) TransferJournal(ctx context.Context, journalID, actorID string, now time.Time, createGL portsrepo.CreateGLJournalFunc) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	header, err := r.findJournal(ctx, tx, journalID, "FOR UPDATE")
	if err != nil {
		return "", err
	}
	if header.TransferStatus == domain.TransferTransferred {
		return "", fmt.Errorf("%w: journal %s is already transferred", apperrors.ErrConflict, journalID)
	}

	lines, err := r.findLines(ctx, tx, journalID)
	if err != nil {
		return "", err
	}

	glJournalID, err := createGL(ctx, tx, *header, lines)
	if err != nil {
		return "", err
	}

	updateQuery := `
		UPDATE sla_journal_headers
		SET status = $2, transfer_status = $3, gl_journal_id = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE journal_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		journalID,
		string(domain.StatusFinal),
		string(domain.TransferTransferred),
		glJournalID,
		now,
		actorID,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to mark journal "+journalID+" transferred", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return glJournalID, nil
}
