package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/middleware"
)

// DefaultSuspenseSegments is the built-in "needs review" account used when a
// configured mapping cannot resolve an account.
const DefaultSuspenseSegments = "01-000-99999-000-000"

// defaultAccountSegments preserves legacy behavior for installations that
// have not configured accounting rules yet: well-known rule codes resolve to
// these built-in accounts.
var defaultAccountSegments = map[domain.RuleCode]string{
	domain.RuleLiability:          "01-000-21000-000-000",
	domain.RuleAPLiability:        "01-000-21100-000-000",
	domain.RuleExpense:            "01-000-52000-000-000",
	domain.RuleCash:               "01-000-11000-000-000",
	domain.RuleReceivable:         "01-000-12000-000-000",
	domain.RuleRevenue:            "01-000-41000-000-000",
	domain.RuleDeferredRevenue:    "01-000-24000-000-000",
	domain.RuleUnappliedCash:      "01-000-24500-000-000",
	domain.RuleInventoryValuation: "01-000-14000-000-000",
	domain.RuleLCMAbsorption:      "01-000-51500-000-000",
}

// accountResolver derives the concrete ledger account for a journal leg.
// Resolution walks an ordered strategy chain: configured rule, built-in
// default for well-known rule codes, suspense. It never fails for "not
// configured"; only collaborator failures propagate.
type accountResolver struct {
	ruleRepo         portsrepo.RuleReader
	ledgerSvc        portssvc.LedgerSvcFacade
	suspenseSegments string
}

func newAccountResolver(ruleRepo portsrepo.RuleReader, ledgerSvc portssvc.LedgerSvcFacade, suspenseSegments string) *accountResolver {
	if suspenseSegments == "" {
		suspenseSegments = DefaultSuspenseSegments
	}
	return &accountResolver{
		ruleRepo:         ruleRepo,
		ledgerSvc:        ledgerSvc,
		suspenseSegments: suspenseSegments,
	}
}

// resolveStep is one named step of the resolution chain. The boolean reports
// whether the step produced an account.
type resolveStep func(ctx context.Context, ruleCode domain.RuleCode, event domain.Event) (domain.CodeCombination, bool, error)

// ResolveAccount returns the account a journal leg with the given rule code
// should post to.
func (r *accountResolver) ResolveAccount(ctx context.Context, ruleCode domain.RuleCode, event domain.Event) (domain.CodeCombination, error) {
	steps := []resolveStep{r.resolveFromRule, r.resolveFromDefaults, r.resolveSuspense}
	for _, step := range steps {
		account, ok, err := step(ctx, ruleCode, event)
		if err != nil {
			return domain.CodeCombination{}, err
		}
		if ok {
			return account, nil
		}
	}
	// The suspense step always resolves or errors.
	return domain.CodeCombination{}, fmt.Errorf("%w: no resolution for rule code %s", apperrors.ErrInternal, ruleCode)
}

// resolveFromRule evaluates a configured accounting rule. A mapping gap
// (missing attribute, no matching row, dangling account reference) routes to
// suspense directly rather than the built-in defaults, so unresolved inputs
// always land in the same review bucket.
func (r *accountResolver) resolveFromRule(ctx context.Context, ruleCode domain.RuleCode, event domain.Event) (domain.CodeCombination, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rule, err := r.ruleRepo.FindRule(ctx, ruleCode, event.EventClass)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.CodeCombination{}, false, nil
	}
	if err != nil {
		return domain.CodeCombination{}, false, fmt.Errorf("failed to look up accounting rule %s: %w", ruleCode, err)
	}

	switch rule.SourceType {
	case domain.RuleSourceConstant:
		return r.resolveValue(ctx, event.LedgerID, rule.ConstantValue,
			slog.String("rule_code", string(ruleCode)), slog.String("rule_id", rule.RuleID))

	case domain.RuleSourceMappingSet:
		if event.Context == nil {
			logger.Warn("Event has no context for mapping-set rule, routing to suspense",
				slog.String("rule_code", string(ruleCode)), slog.String("source_attribute", rule.SourceAttribute))
			return r.resolveSuspense(ctx, ruleCode, event)
		}
		attrValue, ok := event.Context.Attribute(rule.SourceAttribute)
		if !ok || attrValue == "" {
			logger.Warn("Event attribute missing for mapping-set rule, routing to suspense",
				slog.String("rule_code", string(ruleCode)), slog.String("source_attribute", rule.SourceAttribute))
			return r.resolveSuspense(ctx, ruleCode, event)
		}

		value, err := r.ruleRepo.FindMappingSetValue(ctx, rule.MappingSetID, attrValue)
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No mapping row for input value, routing to suspense",
				slog.String("rule_code", string(ruleCode)), slog.String("input_value", attrValue))
			return r.resolveSuspense(ctx, ruleCode, event)
		}
		if err != nil {
			return domain.CodeCombination{}, false, fmt.Errorf("failed to look up mapping value for rule %s: %w", ruleCode, err)
		}
		return r.resolveValue(ctx, event.LedgerID, value.OutputValue,
			slog.String("rule_code", string(ruleCode)), slog.String("input_value", attrValue))

	default:
		return domain.CodeCombination{}, false, fmt.Errorf("%w: unknown rule source type %s on rule %s", apperrors.ErrInternal, rule.SourceType, rule.RuleID)
	}
}

// resolveValue turns a rule output into an account: full segment strings go
// through get-or-create, anything else is treated as a direct code
// combination reference. A dangling reference routes to suspense.
func (r *accountResolver) resolveValue(ctx context.Context, ledgerID, value string, logAttrs ...any) (domain.CodeCombination, bool, error) {
	if domain.IsSegmentString(value) {
		account, err := r.ledgerSvc.GetOrCreateCodeCombination(ctx, ledgerID, value)
		if err != nil {
			return domain.CodeCombination{}, false, fmt.Errorf("failed to resolve account for segments %s: %w", value, err)
		}
		return account, true, nil
	}

	account, err := r.ledgerSvc.FindCodeCombinationByID(ctx, value)
	if errors.Is(err, apperrors.ErrNotFound) {
		middleware.GetLoggerFromCtx(ctx).Warn("Rule references unknown code combination, routing to suspense", logAttrs...)
		return r.resolveSuspense(ctx, "", domain.Event{LedgerID: ledgerID})
	}
	if err != nil {
		return domain.CodeCombination{}, false, fmt.Errorf("failed to find code combination %s: %w", value, err)
	}
	return *account, true, nil
}

// resolveFromDefaults applies the built-in segment string for well-known rule
// codes.
func (r *accountResolver) resolveFromDefaults(ctx context.Context, ruleCode domain.RuleCode, event domain.Event) (domain.CodeCombination, bool, error) {
	segments, ok := defaultAccountSegments[ruleCode]
	if !ok {
		return domain.CodeCombination{}, false, nil
	}
	account, err := r.ledgerSvc.GetOrCreateCodeCombination(ctx, event.LedgerID, segments)
	if err != nil {
		return domain.CodeCombination{}, false, fmt.Errorf("failed to resolve default account for rule code %s: %w", ruleCode, err)
	}
	return account, true, nil
}

// resolveSuspense is the terminal step: every unresolved leg lands in the
// same suspense account.
func (r *accountResolver) resolveSuspense(ctx context.Context, _ domain.RuleCode, event domain.Event) (domain.CodeCombination, bool, error) {
	account, err := r.ledgerSvc.GetOrCreateCodeCombination(ctx, event.LedgerID, r.suspenseSegments)
	if err != nil {
		return domain.CodeCombination{}, false, fmt.Errorf("failed to resolve suspense account: %w", err)
	}
	return account, true, nil
}
