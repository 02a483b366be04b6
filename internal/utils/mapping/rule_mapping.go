package mapping

import (
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/models"
)

// ToModelAccountingRule converts a domain accounting rule to a model row.
func ToModelAccountingRule(d domain.AccountingRule) models.AccountingRule {
	return models.AccountingRule{
		RuleID:          d.RuleID,
		RuleCode:        string(d.RuleCode),
		EventClass:      string(d.EventClass),
		SourceType:      string(d.SourceType),
		ConstantValue:   d.ConstantValue,
		MappingSetID:    d.MappingSetID,
		SourceAttribute: d.SourceAttribute,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountingRule converts a model accounting rule row to the domain shape.
func ToDomainAccountingRule(m models.AccountingRule) domain.AccountingRule {
	return domain.AccountingRule{
		RuleID:          m.RuleID,
		RuleCode:        domain.RuleCode(m.RuleCode),
		EventClass:      domain.EventClass(m.EventClass),
		SourceType:      domain.RuleSourceType(m.SourceType),
		ConstantValue:   m.ConstantValue,
		MappingSetID:    m.MappingSetID,
		SourceAttribute: m.SourceAttribute,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMappingSet converts a model mapping set row to the domain shape.
func ToDomainMappingSet(m models.MappingSet) domain.MappingSet {
	return domain.MappingSet{
		MappingSetID: m.MappingSetID,
		Name:         m.Name,
		Description:  m.Description,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMappingSetValue converts a model mapping value row to the domain shape.
func ToDomainMappingSetValue(m models.MappingSetValue) domain.MappingSetValue {
	return domain.MappingSetValue{
		MappingSetValueID: m.MappingSetValueID,
		MappingSetID:      m.MappingSetID,
		InputValue:        m.InputValue,
		OutputValue:       m.OutputValue,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCodeCombination converts a model code combination row to the domain shape.
func ToDomainCodeCombination(m models.CodeCombination) domain.CodeCombination {
	return domain.CodeCombination{
		CodeCombinationID: m.CodeCombinationID,
		LedgerID:          m.LedgerID,
		Segments:          m.Segments,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
