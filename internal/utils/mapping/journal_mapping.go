package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/models"
)

// ToModelJournalHeader converts a domain journal header to a model row.
func ToModelJournalHeader(d domain.JournalHeader) models.JournalHeader {
	return models.JournalHeader{
		JournalID:      d.JournalID,
		LedgerID:       d.LedgerID,
		EventClass:     string(d.EventClass),
		EntityID:       d.EntityID,
		EntityTable:    d.EntityTable,
		EventDate:      d.EventDate,
		GLDate:         d.GLDate,
		CurrencyCode:   d.CurrencyCode,
		Description:    d.Description,
		Status:         string(d.Status),
		TransferStatus: string(d.TransferStatus),
		GLJournalID:    d.GLJournalID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalHeader converts a model journal header row to the domain shape.
func ToDomainJournalHeader(m models.JournalHeader) domain.JournalHeader {
	return domain.JournalHeader{
		JournalID:      m.JournalID,
		LedgerID:       m.LedgerID,
		EventClass:     domain.EventClass(m.EventClass),
		EntityID:       m.EntityID,
		EntityTable:    m.EntityTable,
		EventDate:      m.EventDate,
		GLDate:         m.GLDate,
		CurrencyCode:   m.CurrencyCode,
		Description:    m.Description,
		Status:         domain.JournalStatus(m.Status),
		TransferStatus: domain.TransferStatus(m.TransferStatus),
		GLJournalID:    m.GLJournalID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain line to a model row, splitting the
// side/amount pair into entered_dr XOR entered_cr.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	line := models.JournalLine{
		LineID:            d.LineID,
		JournalID:         d.JournalID,
		LineNumber:        d.LineNumber,
		AccountingClass:   d.AccountingClass,
		CodeCombinationID: d.CodeCombinationID,
		CurrencyCode:      d.CurrencyCode,
		Description:       d.Description,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
	if d.Side == domain.Debit {
		line.EnteredDr = decimal.NewNullDecimal(d.Amount)
	} else {
		line.EnteredCr = decimal.NewNullDecimal(d.Amount)
	}
	return line
}

// ToDomainJournalLine converts a model line row to the domain shape.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	line := domain.JournalLine{
		LineID:            m.LineID,
		JournalID:         m.JournalID,
		LineNumber:        m.LineNumber,
		AccountingClass:   m.AccountingClass,
		CodeCombinationID: m.CodeCombinationID,
		CurrencyCode:      m.CurrencyCode,
		Description:       m.Description,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
	if m.EnteredDr.Valid {
		line.Side = domain.Debit
		line.Amount = m.EnteredDr.Decimal
	} else {
		line.Side = domain.Credit
		line.Amount = m.EnteredCr.Decimal
	}
	return line
}
