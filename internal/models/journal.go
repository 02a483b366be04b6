package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalHeader is the database row shape of a subledger journal header.
type JournalHeader struct {
	JournalID      string
	LedgerID       string
	EventClass     string
	EntityID       string
	EntityTable    string
	EventDate      time.Time
	GLDate         time.Time
	CurrencyCode   string
	Description    string
	Status         string
	TransferStatus string
	GLJournalID    *string
	AuditFields
}

// JournalLine is the database row shape of a journal line. The single-sided
// leg invariant is stored as entered_dr XOR entered_cr.
type JournalLine struct {
	LineID            string
	JournalID         string
	LineNumber        int
	AccountingClass   string
	CodeCombinationID string
	EnteredDr         decimal.NullDecimal
	EnteredCr         decimal.NullDecimal
	CurrencyCode      string
	Description       string
	AuditFields
}
