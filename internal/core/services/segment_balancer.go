package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/middleware"
)

// Default intercompany account templates. The balancing segment is replaced
// with the legal entity being balanced.
const (
	DefaultIntercompanyPayableSegments    = "00-000-21500-000-000"
	DefaultIntercompanyReceivableSegments = "00-000-13500-000-000"
)

// balancingEpsilon tolerates sub-cent rounding residue when deciding whether
// a segment needs a balancing line.
var balancingEpsilon = decimal.New(1, -2) // 0.01

// ErrIntercompanySetupMissing indicates the balancer cannot synthesize
// balancing lines because no intercompany account templates are configured.
var ErrIntercompanySetupMissing = errors.New("intercompany balancing accounts are not configured")

// segmentBalancer enforces that each legal-entity segment balances
// independently by inserting intercompany lines where a segment's debits and
// credits do not net to zero.
type segmentBalancer struct {
	ledgerSvc          portssvc.LedgerSvcFacade
	payableSegments    string
	receivableSegments string
}

func newSegmentBalancer(ledgerSvc portssvc.LedgerSvcFacade, payableSegments, receivableSegments string) *segmentBalancer {
	if payableSegments == "" {
		payableSegments = DefaultIntercompanyPayableSegments
	}
	if receivableSegments == "" {
		receivableSegments = DefaultIntercompanyReceivableSegments
	}
	return &segmentBalancer{
		ledgerSvc:          ledgerSvc,
		payableSegments:    payableSegments,
		receivableSegments: receivableSegments,
	}
}

// Balance returns the lines with at most one intercompany balancing line
// appended per unbalanced legal-entity segment. Already-balanced segments are
// left untouched. After this step every segment's debits equal its credits
// within the rounding epsilon, and therefore so do the journal's.
func (b *segmentBalancer) Balance(ctx context.Context, ledgerID string, lines []DraftLine) ([]DraftLine, error) {
	nets := make(map[string]decimal.Decimal)
	for _, line := range lines {
		segment := line.Account.BalancingSegment()
		net := nets[segment]
		if line.Side == domain.Debit {
			net = net.Add(line.Amount)
		} else {
			net = net.Sub(line.Amount)
		}
		nets[segment] = net
	}

	// Deterministic ordering of inserted lines.
	segments := make([]string, 0, len(nets))
	for segment := range nets {
		segments = append(segments, segment)
	}
	sort.Strings(segments)

	balanced := lines
	for _, segment := range segments {
		net := nets[segment]
		if net.Abs().LessThanOrEqual(balancingEpsilon) {
			continue
		}
		if b.payableSegments == "" || b.receivableSegments == "" {
			return nil, fmt.Errorf("%w: segment %s nets to %s", ErrIntercompanySetupMissing, segment, net.String())
		}

		// Excess debits are offset with an intercompany payable credit,
		// excess credits with an intercompany receivable debit.
		template := b.payableSegments
		side := domain.Credit
		class := "Intercompany Payable"
		if net.IsNegative() {
			template = b.receivableSegments
			side = domain.Debit
			class = "Intercompany Receivable"
		}

		account, err := b.ledgerSvc.GetOrCreateCodeCombination(ctx, ledgerID, domain.ReplaceBalancingSegment(template, segment))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve intercompany account for segment %s: %w", segment, err)
		}

		middleware.GetLoggerFromCtx(ctx).Info("Inserting intercompany balancing line",
			slog.String("segment", segment),
			slog.String("net", net.String()),
			slog.String("accounting_class", class))

		balanced = append(balanced, DraftLine{
			AccountingClass: class,
			Account:         account,
			Side:            side,
			Amount:          net.Abs(),
		})
	}
	return balanced, nil
}
