package services

import (
	"context"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/dto"
)

// RuleSvcFacade defines the administrator-facing configuration operations
// for account derivation.
type RuleSvcFacade interface {
	// CreateRule configures a new accounting rule.
	CreateRule(ctx context.Context, req dto.CreateRuleRequest, creatorUserID string) (*domain.AccountingRule, error)

	// ListRules retrieves configured accounting rules.
	ListRules(ctx context.Context, limit, offset int) ([]domain.AccountingRule, error)

	// CreateMappingSet configures a new mapping set with its values.
	CreateMappingSet(ctx context.Context, req dto.CreateMappingSetRequest, creatorUserID string) (*domain.MappingSet, error)

	// ListMappingSets retrieves all mapping sets.
	ListMappingSets(ctx context.Context) ([]domain.MappingSet, error)
}
