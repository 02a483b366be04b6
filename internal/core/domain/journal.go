package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a subledger journal.
type JournalStatus string

const (
	StatusDraft JournalStatus = "DRAFT"
	StatusFinal JournalStatus = "FINAL"
)

// TransferStatus indicates whether a journal has been transferred to the
// general ledger.
type TransferStatus string

const (
	TransferPending     TransferStatus = "PENDING"
	TransferTransferred TransferStatus = "TRANSFERRED"
)

// JournalHeader is the immutable accounting record created for one business
// event. It is created once in Draft/Pending and only ever mutated to flip
// Status/TransferStatus; it is never deleted.
type JournalHeader struct {
	JournalID      string         `json:"journalID"` // Primary Key (e.g., UUID)
	LedgerID       string         `json:"ledgerID"`
	EventClass     EventClass     `json:"eventClass"`
	EntityID       string         `json:"entityID"`    // Originating entity (invoice, payment, ...)
	EntityTable    string         `json:"entityTable"` // Originating entity's table/collection
	EventDate      time.Time      `json:"eventDate"`
	GLDate         time.Time      `json:"glDate"`
	CurrencyCode   string         `json:"currencyCode"`
	Description    string         `json:"description"`
	Status         JournalStatus  `json:"status"`
	TransferStatus TransferStatus `json:"transferStatus"`
	GLJournalID    *string        `json:"glJournalID,omitempty"` // Set once transferred
	Lines          []JournalLine  `json:"lines,omitempty"`       // Often loaded separately
	AuditFields
}

// LineSide indicates whether a journal line is a Debit or a Credit.
type LineSide string

const (
	Debit  LineSide = "DEBIT"
	Credit LineSide = "CREDIT"
)

// Opposite returns the other side.
func (s LineSide) Opposite() LineSide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalLine is a single debit or credit leg of a journal. Amount is always
// a non-negative magnitude; direction is carried by Side alone, which
// guarantees exactly one of entered-debit/entered-credit per line.
type JournalLine struct {
	LineID            string          `json:"lineID"`    // Primary Key (e.g., UUID)
	JournalID         string          `json:"journalID"` // FK -> JournalHeader.journalID
	LineNumber        int             `json:"lineNumber"`
	AccountingClass   string          `json:"accountingClass"` // Human label, e.g. "Liability"
	CodeCombinationID string          `json:"codeCombinationID"`
	Side              LineSide        `json:"side"`
	Amount            decimal.Decimal `json:"amount"` // Positive magnitude
	CurrencyCode      string          `json:"currencyCode"`
	Description       string          `json:"description"`
	AuditFields
}

// EnteredDr returns the line amount when the line is a debit, decimal zero
// otherwise.
func (l JournalLine) EnteredDr() decimal.Decimal {
	if l.Side == Debit {
		return l.Amount
	}
	return decimal.Zero
}

// EnteredCr returns the line amount when the line is a credit, decimal zero
// otherwise.
func (l JournalLine) EnteredCr() decimal.Decimal {
	if l.Side == Credit {
		return l.Amount
	}
	return decimal.Zero
}

// GLJournal is the general-ledger journal produced when a subledger journal
// is transferred.
type GLJournal struct {
	GLJournalID string          `json:"glJournalID"`
	LedgerID    string          `json:"ledgerID"`
	Period      string          `json:"period"` // e.g. "2026-08"
	Source      string          `json:"source"` // e.g. "SLA"
	Description string          `json:"description"`
	Lines       []GLJournalLine `json:"lines,omitempty"`
	AuditFields
}

// GLJournalLine is one net debit/credit per account in a GL journal.
type GLJournalLine struct {
	GLJournalLineID   string          `json:"glJournalLineID"`
	GLJournalID       string          `json:"glJournalID"`
	CodeCombinationID string          `json:"codeCombinationID"`
	AccountedDr       decimal.Decimal `json:"accountedDr"`
	AccountedCr       decimal.Decimal `json:"accountedCr"`
	CurrencyCode      string          `json:"currencyCode"`
}
