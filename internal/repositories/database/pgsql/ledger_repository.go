package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/models"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/utils/mapping"
)

// PgxLedgerRepository persists the general-ledger side: code combinations
// and GL journals.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const codeCombinationColumns = `
	code_combination_id, ledger_id, segments,
	created_at, created_by, last_updated_at, last_updated_by`

// GetOrCreateCodeCombination resolves a combination by (ledger, segments),
// lazily provisioning it. The insert races benignly under concurrency: ON
// CONFLICT DO NOTHING followed by the select settles on a single row.
func (r *PgxLedgerRepository) GetOrCreateCodeCombination(ctx context.Context, ledgerID, segments string) (domain.CodeCombination, error) {
	now := time.Now().UTC()
	insertQuery := `
		INSERT INTO gl_code_combinations (
			code_combination_id, ledger_id, segments,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $4, $5)
		ON CONFLICT (ledger_id, segments) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, insertQuery, uuid.NewString(), ledgerID, segments, now, "system")
	if err != nil {
		return domain.CodeCombination{}, apperrors.NewAppError(500, "failed to provision code combination "+segments, err)
	}

	selectQuery := `SELECT ` + codeCombinationColumns + ` FROM gl_code_combinations WHERE ledger_id = $1 AND segments = $2;`
	var m models.CodeCombination
	err = r.Pool.QueryRow(ctx, selectQuery, ledgerID, segments).Scan(
		&m.CodeCombinationID,
		&m.LedgerID,
		&m.Segments,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.CodeCombination{}, apperrors.NewAppError(500, "failed to read code combination "+segments, err)
	}
	return mapping.ToDomainCodeCombination(m), nil
}

// FindCodeCombinationByID retrieves a code combination by its identifier.
func (r *PgxLedgerRepository) FindCodeCombinationByID(ctx context.Context, codeCombinationID string) (*domain.CodeCombination, error) {
	query := `SELECT ` + codeCombinationColumns + ` FROM gl_code_combinations WHERE code_combination_id = $1;`
	var m models.CodeCombination
	err := r.Pool.QueryRow(ctx, query, codeCombinationID).Scan(
		&m.CodeCombinationID,
		&m.LedgerID,
		&m.Segments,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("code combination %s: %w", codeCombinationID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find code combination "+codeCombinationID, err)
	}

	account := mapping.ToDomainCodeCombination(m)
	return &account, nil
}

// FindCodeCombinationsByIDs retrieves multiple code combinations keyed by ID.
func (r *PgxLedgerRepository) FindCodeCombinationsByIDs(ctx context.Context, codeCombinationIDs []string) (map[string]domain.CodeCombination, error) {
	if len(codeCombinationIDs) == 0 {
		return map[string]domain.CodeCombination{}, nil
	}

	query := `SELECT ` + codeCombinationColumns + ` FROM gl_code_combinations WHERE code_combination_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, codeCombinationIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query code combinations", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.CodeCombination, len(codeCombinationIDs))
	for rows.Next() {
		var m models.CodeCombination
		if err := rows.Scan(
			&m.CodeCombinationID,
			&m.LedgerID,
			&m.Segments,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan code combination", err)
		}
		accounts[m.CodeCombinationID] = mapping.ToDomainCodeCombination(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read code combinations", err)
	}
	return accounts, nil
}

// CreateGLJournalInTx inserts a GL journal and its lines on the caller's
// transaction.
func (r *PgxLedgerRepository) CreateGLJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.GLJournal) error {
	journalQuery := `
		INSERT INTO gl_journals (
			gl_journal_id, ledger_id, period, source, description,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, journalQuery,
		journal.GLJournalID,
		journal.LedgerID,
		journal.Period,
		journal.Source,
		journal.Description,
		journal.CreatedAt,
		journal.CreatedBy,
		journal.LastUpdatedAt,
		journal.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert GL journal "+journal.GLJournalID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO gl_journal_lines (
			gl_journal_line_id, gl_journal_id, code_combination_id,
			accounted_dr, accounted_cr, currency_code
		)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range journal.Lines {
		batch.Queue(lineQuery,
			line.GLJournalLineID,
			line.GLJournalID,
			line.CodeCombinationID,
			line.AccountedDr,
			line.AccountedCr,
			line.CurrencyCode,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for GL journal "+journal.GLJournalID, err)
	}
	return nil
}
