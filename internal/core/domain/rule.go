package domain

// RuleCode is the key under which an accounting rule is looked up when
// deriving the account for a journal leg.
type RuleCode string

const (
	RuleLiability              RuleCode = "LIABILITY"
	RuleAPLiability            RuleCode = "AP_LIABILITY"
	RuleExpense                RuleCode = "EXPENSE"
	RuleCash                   RuleCode = "CASH"
	RuleReceivable             RuleCode = "RECEIVABLE"
	RuleRevenue                RuleCode = "REVENUE"
	RuleDeferredRevenue        RuleCode = "DEFERRED_REVENUE"
	RuleUnappliedCash          RuleCode = "UNAPPLIED_CASH"
	RuleInventoryValuation     RuleCode = "INVENTORY_VALUATION"
	RuleLCMAbsorption          RuleCode = "LCM_ABSORPTION"
	RuleIntercompanyPayable    RuleCode = "INTERCOMPANY_PAYABLE"
	RuleIntercompanyReceivable RuleCode = "INTERCOMPANY_RECEIVABLE"
)

// RuleSourceType selects how an accounting rule derives its account.
type RuleSourceType string

const (
	// RuleSourceConstant resolves to a fixed segment string or code
	// combination reference.
	RuleSourceConstant RuleSourceType = "CONSTANT"
	// RuleSourceMappingSet resolves through a mapping set keyed by an event
	// attribute.
	RuleSourceMappingSet RuleSourceType = "MAPPING_SET"
)

// AccountingRule configures account derivation for a rule code, optionally
// scoped to a single event class (empty EventClass applies to all).
type AccountingRule struct {
	RuleID          string         `json:"ruleID"` // Primary Key (e.g., UUID)
	RuleCode        RuleCode       `json:"ruleCode"`
	EventClass      EventClass     `json:"eventClass,omitempty"`
	SourceType      RuleSourceType `json:"sourceType"`
	ConstantValue   string         `json:"constantValue,omitempty"`   // CONSTANT only
	MappingSetID    string         `json:"mappingSetID,omitempty"`    // MAPPING_SET only
	SourceAttribute string         `json:"sourceAttribute,omitempty"` // MAPPING_SET only
	AuditFields
}

// MappingSet groups mapping values translating a business attribute value to
// a target account or segment string.
type MappingSet struct {
	MappingSetID string `json:"mappingSetID"` // Primary Key (e.g., UUID)
	Name         string `json:"name"`
	Description  string `json:"description"`
	AuditFields
}

// MappingSetValue is one input -> output row of a mapping set. OutputValue is
// either a full segment string or a direct code combination reference.
type MappingSetValue struct {
	MappingSetValueID string `json:"mappingSetValueID"` // Primary Key (e.g., UUID)
	MappingSetID      string `json:"mappingSetID"`      // FK -> MappingSet.mappingSetID
	InputValue        string `json:"inputValue"`
	OutputValue       string `json:"outputValue"`
	AuditFields
}
