package models

// AccountingRule is the database row shape of an accounting rule.
type AccountingRule struct {
	RuleID          string
	RuleCode        string
	EventClass      string
	SourceType      string
	ConstantValue   string
	MappingSetID    string
	SourceAttribute string
	AuditFields
}

// MappingSet is the database row shape of a mapping set.
type MappingSet struct {
	MappingSetID string
	Name         string
	Description  string
	AuditFields
}

// MappingSetValue is the database row shape of one mapping set row.
type MappingSetValue struct {
	MappingSetValueID string
	MappingSetID      string
	InputValue        string
	OutputValue       string
	AuditFields
}
