package services

import (
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
)

// NewServiceContainer wires the service layer from the repository facades.
func NewServiceContainer(
	journalRepo portsrepo.JournalRepositoryFacade,
	ruleRepo portsrepo.RuleRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	opts AccountingOptions,
) *portssvc.ServiceContainer {
	ledgerSvc := NewLedgerService(ledgerRepo)
	return &portssvc.ServiceContainer{
		Accounting: NewAccountingService(journalRepo, ruleRepo, ledgerSvc, opts),
		Rule:       NewRuleService(ruleRepo),
		Ledger:     ledgerSvc,
	}
}
