package models

import "github.com/shopspring/decimal"

// CodeCombination is the database row shape of a ledger account.
type CodeCombination struct {
	CodeCombinationID string
	LedgerID          string
	Segments          string
	AuditFields
}

// GLJournal is the database row shape of a general-ledger journal.
type GLJournal struct {
	GLJournalID string
	LedgerID    string
	Period      string
	Source      string
	Description string
	AuditFields
}

// GLJournalLine is the database row shape of a general-ledger journal line.
type GLJournalLine struct {
	GLJournalLineID   string
	GLJournalID       string
	CodeCombinationID string
	AccountedDr       decimal.Decimal
	AccountedCr       decimal.Decimal
	CurrencyCode      string
}
