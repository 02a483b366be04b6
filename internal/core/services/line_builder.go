package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/middleware"
)

// DraftLine is a journal leg before numbering and persistence. Amount is a
// non-negative magnitude; direction lives in Side.
type DraftLine struct {
	AccountingClass string
	Account         domain.CodeCombination
	Side            domain.LineSide
	Amount          decimal.Decimal
}

// legTemplate describes one leg of an event class's accounting template: the
// rule code deriving the account, the side, and the human accounting class.
type legTemplate struct {
	RuleCode        domain.RuleCode
	Side            domain.LineSide
	AccountingClass string
}

// legSelector returns the ordered legs for an event. Most classes use a fixed
// template; data-driven classes inspect the event context.
type legSelector func(domain.Event) []legTemplate

func fixedLegs(legs ...legTemplate) legSelector {
	return func(domain.Event) []legTemplate { return legs }
}

// eventClassTemplates maps each supported event class to its accounting
// template. Adding a class is a new entry here, not a new code path.
var eventClassTemplates = map[domain.EventClass]legSelector{
	domain.EventAPInvoiceValidated: fixedLegs(
		legTemplate{RuleCode: domain.RuleExpense, Side: domain.Debit, AccountingClass: "Expense"},
		legTemplate{RuleCode: domain.RuleLiability, Side: domain.Credit, AccountingClass: "Liability"},
	),
	domain.EventAPPaymentCreated: fixedLegs(
		legTemplate{RuleCode: domain.RuleLiability, Side: domain.Debit, AccountingClass: "Liability"},
		legTemplate{RuleCode: domain.RuleCash, Side: domain.Credit, AccountingClass: "Cash"},
	),
	domain.EventARInvoiceCreated: arInvoiceLegs,
	domain.EventRevenueRecognition: fixedLegs(
		legTemplate{RuleCode: domain.RuleDeferredRevenue, Side: domain.Debit, AccountingClass: "Deferred Revenue"},
		legTemplate{RuleCode: domain.RuleRevenue, Side: domain.Credit, AccountingClass: "Revenue"},
	),
	domain.EventLCMAbsorption: fixedLegs(
		legTemplate{RuleCode: domain.RuleInventoryValuation, Side: domain.Debit, AccountingClass: "Inventory Valuation"},
		legTemplate{RuleCode: domain.RuleLCMAbsorption, Side: domain.Credit, AccountingClass: "LCM Absorption"},
	),
}

// arInvoiceLegs credits deferred revenue instead of revenue when the invoice
// carries a revenue schedule reference.
func arInvoiceLegs(event domain.Event) []legTemplate {
	credit := legTemplate{RuleCode: domain.RuleRevenue, Side: domain.Credit, AccountingClass: "Revenue"}
	if arCtx, ok := event.Context.(domain.ARInvoiceContext); ok && arCtx.RevenueRuleID != "" {
		credit = legTemplate{RuleCode: domain.RuleDeferredRevenue, Side: domain.Credit, AccountingClass: "Deferred Revenue"}
	}
	return []legTemplate{
		{RuleCode: domain.RuleReceivable, Side: domain.Debit, AccountingClass: "Receivable"},
		credit,
	}
}

// lineBuilder turns an event into the ordered draft legs of its accounting
// template, resolving each leg's account through the account resolver.
type lineBuilder struct {
	resolver *accountResolver
}

func newLineBuilder(resolver *accountResolver) *lineBuilder {
	return &lineBuilder{resolver: resolver}
}

// BuildLines returns the draft legs for the event. Event classes without a
// template produce zero lines rather than an error, so new business modules
// can emit events before templates exist for them.
func (b *lineBuilder) BuildLines(ctx context.Context, event domain.Event) ([]DraftLine, error) {
	selector, ok := eventClassTemplates[event.EventClass]
	if !ok {
		middleware.GetLoggerFromCtx(ctx).Warn("No accounting template for event class",
			slog.String("event_class", string(event.EventClass)),
			slog.String("entity_id", event.EntityID))
		return nil, nil
	}

	amount := event.Amount
	if lcmCtx, ok := event.Context.(domain.LCMAbsorptionContext); ok {
		amount = lcmCtx.AllocationTotal()
	}

	legs := selector(event)
	lines := make([]DraftLine, 0, len(legs))
	for _, leg := range legs {
		account, err := b.resolver.ResolveAccount(ctx, leg.RuleCode, event)
		if err != nil {
			return nil, err
		}
		lines = append(lines, DraftLine{
			AccountingClass: leg.AccountingClass,
			Account:         account,
			Side:            leg.Side,
			Amount:          amount,
		})
	}
	return lines, nil
}
