package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/models"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/utils/mapping"
)

// PgxRuleRepository persists accounting rules and mapping sets.
type PgxRuleRepository struct {
	BaseRepository
}

func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

// FindRule retrieves the rule for a rule code, preferring a rule scoped to
// the event class over an unscoped one.
func (r *PgxRuleRepository) FindRule(ctx context.Context, ruleCode domain.RuleCode, eventClass domain.EventClass) (*domain.AccountingRule, error) {
	query := `
		SELECT rule_id, rule_code, event_class, source_type, constant_value,
		       mapping_set_id, source_attribute,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM accounting_rules
		WHERE rule_code = $1 AND (event_class = $2 OR event_class = '')
		ORDER BY CASE WHEN event_class = $2 THEN 0 ELSE 1 END
		LIMIT 1;
	`
	var m models.AccountingRule
	err := r.Pool.QueryRow(ctx, query, string(ruleCode), string(eventClass)).Scan(
		&m.RuleID,
		&m.RuleCode,
		&m.EventClass,
		&m.SourceType,
		&m.ConstantValue,
		&m.MappingSetID,
		&m.SourceAttribute,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("accounting rule %s: %w", ruleCode, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find accounting rule "+string(ruleCode), err)
	}

	rule := mapping.ToDomainAccountingRule(m)
	return &rule, nil
}

// ListRules retrieves configured accounting rules.
func (r *PgxRuleRepository) ListRules(ctx context.Context, limit, offset int) ([]domain.AccountingRule, error) {
	query := `
		SELECT rule_id, rule_code, event_class, source_type, constant_value,
		       mapping_set_id, source_attribute,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM accounting_rules
		ORDER BY rule_code, event_class
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounting rules", err)
	}
	defer rows.Close()

	var rules []domain.AccountingRule
	for rows.Next() {
		var m models.AccountingRule
		if err := rows.Scan(
			&m.RuleID,
			&m.RuleCode,
			&m.EventClass,
			&m.SourceType,
			&m.ConstantValue,
			&m.MappingSetID,
			&m.SourceAttribute,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan accounting rule", err)
		}
		rules = append(rules, mapping.ToDomainAccountingRule(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read accounting rules", err)
	}
	return rules, nil
}

// SaveRule persists a new accounting rule. One rule per (rule_code,
// event_class) pair; a second insert fails with ErrDuplicate.
func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.AccountingRule) error {
	m := mapping.ToModelAccountingRule(rule)
	query := `
		INSERT INTO accounting_rules (
			rule_id, rule_code, event_class, source_type, constant_value,
			mapping_set_id, source_attribute,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RuleID,
		m.RuleCode,
		m.EventClass,
		m.SourceType,
		m.ConstantValue,
		m.MappingSetID,
		m.SourceAttribute,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("accounting rule %s for event class %s: %w", m.RuleCode, m.EventClass, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert accounting rule "+m.RuleID, err)
	}
	return nil
}

// FindMappingSetValue retrieves the mapping row whose input value exactly
// matches.
func (r *PgxRuleRepository) FindMappingSetValue(ctx context.Context, mappingSetID, inputValue string) (*domain.MappingSetValue, error) {
	query := `
		SELECT mapping_set_value_id, mapping_set_id, input_value, output_value,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM mapping_set_values
		WHERE mapping_set_id = $1 AND input_value = $2;
	`
	var m models.MappingSetValue
	err := r.Pool.QueryRow(ctx, query, mappingSetID, inputValue).Scan(
		&m.MappingSetValueID,
		&m.MappingSetID,
		&m.InputValue,
		&m.OutputValue,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mapping value %q in set %s: %w", inputValue, mappingSetID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find mapping value in set "+mappingSetID, err)
	}

	value := mapping.ToDomainMappingSetValue(m)
	return &value, nil
}

// ListMappingSets retrieves all mapping sets.
func (r *PgxRuleRepository) ListMappingSets(ctx context.Context) ([]domain.MappingSet, error) {
	query := `
		SELECT mapping_set_id, name, description,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM mapping_sets
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list mapping sets", err)
	}
	defer rows.Close()

	var sets []domain.MappingSet
	for rows.Next() {
		var m models.MappingSet
		if err := rows.Scan(
			&m.MappingSetID,
			&m.Name,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan mapping set", err)
		}
		sets = append(sets, mapping.ToDomainMappingSet(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read mapping sets", err)
	}
	return sets, nil
}

// SaveMappingSet persists a mapping set with all of its values atomically.
func (r *PgxRuleRepository) SaveMappingSet(ctx context.Context, set domain.MappingSet, values []domain.MappingSetValue) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	setQuery := `
		INSERT INTO mapping_sets (
			mapping_set_id, name, description,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, setQuery,
		set.MappingSetID,
		set.Name,
		set.Description,
		set.CreatedAt,
		set.CreatedBy,
		set.LastUpdatedAt,
		set.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("mapping set %q: %w", set.Name, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert mapping set "+set.MappingSetID, err)
	}

	batch := &pgx.Batch{}
	valueQuery := `
		INSERT INTO mapping_set_values (
			mapping_set_value_id, mapping_set_id, input_value, output_value,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, value := range values {
		batch.Queue(valueQuery,
			value.MappingSetValueID,
			value.MappingSetID,
			value.InputValue,
			value.OutputValue,
			value.CreatedAt,
			value.CreatedBy,
			value.LastUpdatedAt,
			value.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert values for mapping set "+set.MappingSetID, err)
	}

	return r.Commit(ctx, tx)
}
