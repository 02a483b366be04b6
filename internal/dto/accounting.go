package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
)

// SourceDataRequest is the open attribute bag originating modules send with
// an event. Only the attributes the event's class permits are carried into
// the typed event context; the rest are ignored.
type SourceDataRequest struct {
	VendorType       string            `json:"vendorType,omitempty"`
	PaymentMethod    string            `json:"paymentMethod,omitempty"`
	CustomerClass    string            `json:"customerClass,omitempty"`
	RevenueRuleID    string            `json:"revenueRuleID,omitempty"`
	TradeOperationID string            `json:"tradeOperationID,omitempty"`
	Allocations      []decimal.Decimal `json:"allocations,omitempty"`
}

// CreateAccountingEventRequest is the payload for the accounting entry point.
type CreateAccountingEventRequest struct {
	EventClass   string             `json:"eventClass" binding:"required"`
	EntityID     string             `json:"entityID" binding:"required"`
	EntityTable  string             `json:"entityTable" binding:"required"`
	Description  string             `json:"description"`
	Amount       decimal.Decimal    `json:"amount"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	EventDate    time.Time          `json:"eventDate" binding:"required"`
	GLDate       *time.Time         `json:"glDate,omitempty"`
	LedgerID     string             `json:"ledgerID" binding:"required"`
	SourceData   *SourceDataRequest `json:"sourceData,omitempty"`
}

// ToDomainEvent converts the request into a validated domain event with the
// typed context its event class permits.
func (r CreateAccountingEventRequest) ToDomainEvent() (domain.Event, error) {
	glDate := r.EventDate
	if r.GLDate != nil {
		glDate = *r.GLDate
	}

	event := domain.Event{
		EventClass:   domain.EventClass(r.EventClass),
		EntityID:     r.EntityID,
		EntityTable:  r.EntityTable,
		Description:  r.Description,
		Amount:       r.Amount,
		CurrencyCode: r.CurrencyCode,
		EventDate:    r.EventDate,
		GLDate:       glDate,
		LedgerID:     r.LedgerID,
	}

	if r.SourceData != nil {
		switch event.EventClass {
		case domain.EventAPInvoiceValidated:
			event.Context = domain.APInvoiceContext{VendorType: r.SourceData.VendorType}
		case domain.EventAPPaymentCreated:
			event.Context = domain.APPaymentContext{PaymentMethod: r.SourceData.PaymentMethod}
		case domain.EventARInvoiceCreated:
			event.Context = domain.ARInvoiceContext{
				CustomerClass: r.SourceData.CustomerClass,
				RevenueRuleID: r.SourceData.RevenueRuleID,
			}
		case domain.EventRevenueRecognition:
			event.Context = domain.RevenueRecognitionContext{RevenueRuleID: r.SourceData.RevenueRuleID}
		case domain.EventLCMAbsorption:
			event.Context = domain.LCMAbsorptionContext{
				TradeOperationID: r.SourceData.TradeOperationID,
				Allocations:      r.SourceData.Allocations,
			}
		}
	}

	if err := event.Validate(); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// JournalLineResponse is one leg of a journal in API responses. Exactly one
// of enteredDr/enteredCr is non-zero.
type JournalLineResponse struct {
	LineID            string          `json:"lineID"`
	LineNumber        int             `json:"lineNumber"`
	AccountingClass   string          `json:"accountingClass"`
	CodeCombinationID string          `json:"codeCombinationID"`
	EnteredDr         decimal.Decimal `json:"enteredDr"`
	EnteredCr         decimal.Decimal `json:"enteredCr"`
	CurrencyCode      string          `json:"currencyCode"`
	Description       string          `json:"description"`
}

// JournalResponse is a journal header with optional lines in API responses.
type JournalResponse struct {
	JournalID      string                `json:"journalID"`
	LedgerID       string                `json:"ledgerID"`
	EventClass     string                `json:"eventClass"`
	EntityID       string                `json:"entityID"`
	EntityTable    string                `json:"entityTable"`
	EventDate      time.Time             `json:"eventDate"`
	GLDate         time.Time             `json:"glDate"`
	CurrencyCode   string                `json:"currencyCode"`
	Description    string                `json:"description"`
	Status         string                `json:"status"`
	TransferStatus string                `json:"transferStatus"`
	GLJournalID    *string               `json:"glJournalID,omitempty"`
	Lines          []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ToJournalResponse converts a domain journal header to its API shape.
func ToJournalResponse(h *domain.JournalHeader) JournalResponse {
	resp := JournalResponse{
		JournalID:      h.JournalID,
		LedgerID:       h.LedgerID,
		EventClass:     string(h.EventClass),
		EntityID:       h.EntityID,
		EntityTable:    h.EntityTable,
		EventDate:      h.EventDate,
		GLDate:         h.GLDate,
		CurrencyCode:   h.CurrencyCode,
		Description:    h.Description,
		Status:         string(h.Status),
		TransferStatus: string(h.TransferStatus),
		GLJournalID:    h.GLJournalID,
		CreatedAt:      h.CreatedAt,
	}
	for _, line := range h.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			LineID:            line.LineID,
			LineNumber:        line.LineNumber,
			AccountingClass:   line.AccountingClass,
			CodeCombinationID: line.CodeCombinationID,
			EnteredDr:         line.EnteredDr(),
			EnteredCr:         line.EnteredCr(),
			CurrencyCode:      line.CurrencyCode,
			Description:       line.Description,
		})
	}
	return resp
}

// ListJournalsResponse wraps a page of journal headers.
type ListJournalsResponse struct {
	Journals []JournalResponse `json:"journals"`
}
