package repositories

import (
	"context"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
)

// RuleReader defines read operations for accounting configuration data.
type RuleReader interface {
	// FindRule retrieves the accounting rule for a rule code, preferring a
	// rule scoped to the given event class over an unscoped one. Returns
	// apperrors.ErrNotFound when no rule is configured.
	FindRule(ctx context.Context, ruleCode domain.RuleCode, eventClass domain.EventClass) (*domain.AccountingRule, error)

	// ListRules retrieves configured accounting rules.
	ListRules(ctx context.Context, limit, offset int) ([]domain.AccountingRule, error)

	// FindMappingSetValue retrieves the mapping row whose input value exactly
	// matches. Returns apperrors.ErrNotFound when no row matches.
	FindMappingSetValue(ctx context.Context, mappingSetID, inputValue string) (*domain.MappingSetValue, error)

	// ListMappingSets retrieves all mapping sets.
	ListMappingSets(ctx context.Context) ([]domain.MappingSet, error)
}

// RuleWriter defines write operations for accounting configuration data.
type RuleWriter interface {
	// SaveRule persists a new accounting rule.
	SaveRule(ctx context.Context, rule domain.AccountingRule) error

	// SaveMappingSet persists a mapping set with all of its values atomically.
	SaveMappingSet(ctx context.Context, set domain.MappingSet, values []domain.MappingSetValue) error
}

// RuleRepositoryFacade combines all rule-related repository interfaces.
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}
