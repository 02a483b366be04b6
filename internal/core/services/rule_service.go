package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/dto"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/middleware"
)

// ruleService provides administrator configuration of account derivation.
type ruleService struct {
	ruleRepo portsrepo.RuleRepositoryFacade
}

// NewRuleService creates a new RuleService.
func NewRuleService(ruleRepo portsrepo.RuleRepositoryFacade) portssvc.RuleSvcFacade {
	return &ruleService{ruleRepo: ruleRepo}
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

// CreateRule configures a new accounting rule. Implements
// portssvc.RuleSvcFacade.
func (s *ruleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest, creatorUserID string) (*domain.AccountingRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sourceType := domain.RuleSourceType(req.SourceType)
	switch sourceType {
	case domain.RuleSourceConstant:
		if req.ConstantValue == "" {
			return nil, fmt.Errorf("%w: constant rules require a constant value", apperrors.ErrValidation)
		}
	case domain.RuleSourceMappingSet:
		if req.MappingSetID == "" || req.SourceAttribute == "" {
			return nil, fmt.Errorf("%w: mapping-set rules require a mapping set and a source attribute", apperrors.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown rule source type %s", apperrors.ErrValidation, req.SourceType)
	}

	now := time.Now().UTC()
	rule := domain.AccountingRule{
		RuleID:          uuid.NewString(),
		RuleCode:        domain.RuleCode(req.RuleCode),
		EventClass:      domain.EventClass(req.EventClass),
		SourceType:      sourceType,
		ConstantValue:   req.ConstantValue,
		MappingSetID:    req.MappingSetID,
		SourceAttribute: req.SourceAttribute,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		logger.Error("Failed to save accounting rule", slog.String("error", err.Error()), slog.String("rule_code", req.RuleCode))
		return nil, fmt.Errorf("failed to save accounting rule: %w", err)
	}

	logger.Info("Accounting rule created", slog.String("rule_id", rule.RuleID), slog.String("rule_code", req.RuleCode))
	return &rule, nil
}

// ListRules retrieves configured accounting rules. Implements
// portssvc.RuleSvcFacade.
func (s *ruleService) ListRules(ctx context.Context, limit, offset int) ([]domain.AccountingRule, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.ruleRepo.ListRules(ctx, limit, offset)
}

// CreateMappingSet configures a new mapping set with its values. Implements
// portssvc.RuleSvcFacade.
func (s *ruleService) CreateMappingSet(ctx context.Context, req dto.CreateMappingSetRequest, creatorUserID string) (*domain.MappingSet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	seen := make(map[string]struct{}, len(req.Values))
	for _, value := range req.Values {
		if _, dup := seen[value.InputValue]; dup {
			return nil, fmt.Errorf("%w: duplicate input value %q", apperrors.ErrValidation, value.InputValue)
		}
		seen[value.InputValue] = struct{}{}
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	set := domain.MappingSet{
		MappingSetID: uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		AuditFields:  audit,
	}
	values := make([]domain.MappingSetValue, len(req.Values))
	for i, value := range req.Values {
		values[i] = domain.MappingSetValue{
			MappingSetValueID: uuid.NewString(),
			MappingSetID:      set.MappingSetID,
			InputValue:        value.InputValue,
			OutputValue:       value.OutputValue,
			AuditFields:       audit,
		}
	}

	if err := s.ruleRepo.SaveMappingSet(ctx, set, values); err != nil {
		logger.Error("Failed to save mapping set", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save mapping set: %w", err)
	}

	logger.Info("Mapping set created", slog.String("mapping_set_id", set.MappingSetID), slog.Int("value_count", len(values)))
	return &set, nil
}

// ListMappingSets retrieves all mapping sets. Implements
// portssvc.RuleSvcFacade.
func (s *ruleService) ListMappingSets(ctx context.Context) ([]domain.MappingSet, error) {
	return s.ruleRepo.ListMappingSets(ctx)
}
