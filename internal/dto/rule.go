package dto

import (
	"time"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
)

// CreateRuleRequest is the payload for configuring an accounting rule.
type CreateRuleRequest struct {
	RuleCode        string `json:"ruleCode" binding:"required,notblank"`
	EventClass      string `json:"eventClass,omitempty"`
	SourceType      string `json:"sourceType" binding:"required,oneof=CONSTANT MAPPING_SET"`
	ConstantValue   string `json:"constantValue,omitempty"`
	MappingSetID    string `json:"mappingSetID,omitempty"`
	SourceAttribute string `json:"sourceAttribute,omitempty"`
}

// RuleResponse is an accounting rule in API responses.
type RuleResponse struct {
	RuleID          string    `json:"ruleID"`
	RuleCode        string    `json:"ruleCode"`
	EventClass      string    `json:"eventClass,omitempty"`
	SourceType      string    `json:"sourceType"`
	ConstantValue   string    `json:"constantValue,omitempty"`
	MappingSetID    string    `json:"mappingSetID,omitempty"`
	SourceAttribute string    `json:"sourceAttribute,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToRuleResponse converts a domain accounting rule to its API shape.
func ToRuleResponse(r *domain.AccountingRule) RuleResponse {
	return RuleResponse{
		RuleID:          r.RuleID,
		RuleCode:        string(r.RuleCode),
		EventClass:      string(r.EventClass),
		SourceType:      string(r.SourceType),
		ConstantValue:   r.ConstantValue,
		MappingSetID:    r.MappingSetID,
		SourceAttribute: r.SourceAttribute,
		CreatedAt:       r.CreatedAt,
	}
}

// ToRuleResponses converts a slice of domain rules.
func ToRuleResponses(rules []domain.AccountingRule) []RuleResponse {
	responses := make([]RuleResponse, len(rules))
	for i := range rules {
		responses[i] = ToRuleResponse(&rules[i])
	}
	return responses
}

// MappingValueRequest is one input -> output row of a mapping set payload.
type MappingValueRequest struct {
	InputValue  string `json:"inputValue" binding:"required"`
	OutputValue string `json:"outputValue" binding:"required"`
}

// CreateMappingSetRequest is the payload for configuring a mapping set with
// its values.
type CreateMappingSetRequest struct {
	Name        string                `json:"name" binding:"required,notblank"`
	Description string                `json:"description,omitempty"`
	Values      []MappingValueRequest `json:"values" binding:"required,min=1,dive"`
}

// MappingSetResponse is a mapping set in API responses.
type MappingSetResponse struct {
	MappingSetID string    `json:"mappingSetID"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToMappingSetResponse converts a domain mapping set to its API shape.
func ToMappingSetResponse(s *domain.MappingSet) MappingSetResponse {
	return MappingSetResponse{
		MappingSetID: s.MappingSetID,
		Name:         s.Name,
		Description:  s.Description,
		CreatedAt:    s.CreatedAt,
	}
}
