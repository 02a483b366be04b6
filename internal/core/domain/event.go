package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
)

// EventClass tags the kind of business event being accounted.
type EventClass string

const (
	EventAPInvoiceValidated EventClass = "AP_INVOICE_VALIDATED"
	EventAPPaymentCreated   EventClass = "AP_PAYMENT_CREATED"
	EventARInvoiceCreated   EventClass = "AR_INVOICE_CREATED"
	EventRevenueRecognition EventClass = "REVENUE_RECOGNITION"
	EventLCMAbsorption      EventClass = "LCM_ABSORPTION"
)

// EventContext exposes the attributes an event class allows accounting rules
// to read (mapping-set lookups address them by name).
type EventContext interface {
	// Attribute returns the named attribute's value and whether the class
	// carries such an attribute.
	Attribute(name string) (string, bool)
}

// APInvoiceContext carries the attributes available on AP_INVOICE_VALIDATED.
type APInvoiceContext struct {
	VendorType string `json:"vendorType,omitempty"`
}

func (c APInvoiceContext) Attribute(name string) (string, bool) {
	if name == "vendorType" {
		return c.VendorType, true
	}
	return "", false
}

// APPaymentContext carries the attributes available on AP_PAYMENT_CREATED.
type APPaymentContext struct {
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

func (c APPaymentContext) Attribute(name string) (string, bool) {
	if name == "paymentMethod" {
		return c.PaymentMethod, true
	}
	return "", false
}

// ARInvoiceContext carries the attributes available on AR_INVOICE_CREATED.
//
// A non-empty RevenueRuleID routes the credit leg to deferred revenue. The
// referenced revenue rule is owned by the revenue scheduling module and is
// trusted as given; this engine does not verify it exists.
type ARInvoiceContext struct {
	CustomerClass string `json:"customerClass,omitempty"`
	RevenueRuleID string `json:"revenueRuleID,omitempty"`
}

func (c ARInvoiceContext) Attribute(name string) (string, bool) {
	switch name {
	case "customerClass":
		return c.CustomerClass, true
	case "revenueRuleID":
		return c.RevenueRuleID, true
	}
	return "", false
}

// RevenueRecognitionContext carries the attributes available on
// REVENUE_RECOGNITION.
type RevenueRecognitionContext struct {
	RevenueRuleID string `json:"revenueRuleID,omitempty"`
}

func (c RevenueRecognitionContext) Attribute(name string) (string, bool) {
	if name == "revenueRuleID" {
		return c.RevenueRuleID, true
	}
	return "", false
}

// LCMAbsorptionContext carries the cost allocations of one trade operation.
// The absorbed amount is the sum of all allocations.
type LCMAbsorptionContext struct {
	TradeOperationID string            `json:"tradeOperationID,omitempty"`
	Allocations      []decimal.Decimal `json:"allocations,omitempty"`
}

func (c LCMAbsorptionContext) Attribute(name string) (string, bool) {
	if name == "tradeOperationID" {
		return c.TradeOperationID, true
	}
	return "", false
}

// AllocationTotal sums all cost allocations.
func (c LCMAbsorptionContext) AllocationTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range c.Allocations {
		total = total.Add(a)
	}
	return total
}

// Event is the transient input to the accounting engine; it is not persisted
// as such. LedgerID is always supplied by the caller: ledger selection is the
// originating module's responsibility, there is no default ledger.
type Event struct {
	EventClass   EventClass      `json:"eventClass"`
	EntityID     string          `json:"entityID"`
	EntityTable  string          `json:"entityTable"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"` // Non-negative magnitude
	CurrencyCode string          `json:"currencyCode"`
	EventDate    time.Time       `json:"eventDate"`
	GLDate       time.Time       `json:"glDate"`
	LedgerID     string          `json:"ledgerID"`
	Context      EventContext    `json:"context,omitempty"`
}

// Validate checks the event's structural invariants: required identifiers, a
// non-negative amount, and a context of the type its class permits.
func (e Event) Validate() error {
	if e.EventClass == "" {
		return fmt.Errorf("%w: event class is required", apperrors.ErrValidation)
	}
	if e.LedgerID == "" {
		return fmt.Errorf("%w: ledger ID is required", apperrors.ErrValidation)
	}
	if e.EntityID == "" || e.EntityTable == "" {
		return fmt.Errorf("%w: entity reference is required", apperrors.ErrValidation)
	}
	if e.CurrencyCode == "" {
		return fmt.Errorf("%w: currency code is required", apperrors.ErrValidation)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must be non-negative", apperrors.ErrValidation)
	}
	if e.EventDate.IsZero() {
		return fmt.Errorf("%w: event date is required", apperrors.ErrValidation)
	}
	return e.validateContext()
}

func (e Event) validateContext() error {
	if e.Context == nil {
		// Classes without rule-readable attributes may omit the context.
		if e.EventClass == EventLCMAbsorption {
			return fmt.Errorf("%w: %s requires cost allocations", apperrors.ErrValidation, e.EventClass)
		}
		return nil
	}

	ok := false
	switch e.EventClass {
	case EventAPInvoiceValidated:
		_, ok = e.Context.(APInvoiceContext)
	case EventAPPaymentCreated:
		_, ok = e.Context.(APPaymentContext)
	case EventARInvoiceCreated:
		_, ok = e.Context.(ARInvoiceContext)
	case EventRevenueRecognition:
		_, ok = e.Context.(RevenueRecognitionContext)
	case EventLCMAbsorption:
		var lcm LCMAbsorptionContext
		lcm, ok = e.Context.(LCMAbsorptionContext)
		if ok {
			if len(lcm.Allocations) == 0 {
				return fmt.Errorf("%w: %s requires cost allocations", apperrors.ErrValidation, e.EventClass)
			}
			for _, a := range lcm.Allocations {
				if a.IsNegative() {
					return fmt.Errorf("%w: cost allocations must be non-negative", apperrors.ErrValidation)
				}
			}
		}
	default:
		// Unknown classes carry whatever they like; the line builder treats
		// them as a no-op anyway.
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: context type %T is not valid for event class %s", apperrors.ErrValidation, e.Context, e.EventClass)
	}
	return nil
}
