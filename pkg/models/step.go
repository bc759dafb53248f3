package models

import "strings"

// StepType tags a node in the workflow graph. The set is closed except for
// integration steps, which share the "integration_" prefix.
type StepType string

const (
	StepTypeTrigger     StepType = "trigger"
	StepTypeAction      StepType = "action"
	StepTypeDelay       StepType = "delay"
	StepTypeCondition   StepType = "condition"
	StepTypeWaitEvent   StepType = "wait_event"
	StepTypeParallel    StepType = "parallel"
	StepTypeMerge       StepType = "merge"
	StepTypeLoop        StepType = "loop"
	StepTypeTransform   StepType = "transform"
	StepTypeTryCatch    StepType = "try_catch"
	StepTypeAIAgent     StepType = "ai_agent"
	StepTypeHTTPRequest StepType = "http_request"
)

// IntegrationPrefix marks third-party integration step types
// (integration_slack, integration_salesforce, ...).
const IntegrationPrefix = "integration_"

// IsIntegration reports whether the type is a third-party integration step.
func (t StepType) IsIntegration() bool {
	return strings.HasPrefix(string(t), IntegrationPrefix)
}

// ActionType values carried in StepConfig for action steps.
const (
	ActionTypeSendEmail   = "send_email"
	ActionTypeCreateTask  = "create_task"
	ActionTypeUpdateField = "update_field"
	ActionTypeAddTag      = "add_tag"
	ActionTypeRemoveTag   = "remove_tag"
)

// Position holds builder canvas coordinates. Irrelevant to validation.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Step is one node in a workflow's directed graph. Sequential flow follows
// NextStepIDs; non-linear control uses the named Branches.
type Step struct {
	ID          string     `json:"id"          validate:"required"`
	Type        StepType   `json:"type"        validate:"required"`
	Name        string     `json:"name"`
	Config      StepConfig `json:"config"`
	Position    Position   `json:"position"`
	NextStepIDs []string   `json:"nextStepIds"`
	Branches    *Branches  `json:"branches,omitempty"`
}

// Label returns the human name, falling back to the type tag.
func (s *Step) Label() string {
	if s.Name != "" {
		return s.Name
	}

	return string(s.Type)
}

// StepConfig flattens every per-type payload into one object, mirroring the
// builder's wire format. Which fields are meaningful depends on Step.Type;
// the validator owns the per-type required-field rules.
type StepConfig struct {
	// trigger
	TriggerType string `json:"triggerType,omitempty"`

	// action
	ActionType   string `json:"actionType,omitempty"`
	EmailSubject string `json:"emailSubject,omitempty"`
	EmailBody    string `json:"emailBody,omitempty"`
	TaskTitle    string `json:"taskTitle,omitempty"`
	FieldName    string `json:"fieldName,omitempty"`
	FieldValue   string `json:"fieldValue,omitempty"`
	TagName      string `json:"tagName,omitempty"`

	// delay
	DelayValue float64 `json:"delayValue,omitempty"`
	DelayUnit  string  `json:"delayUnit,omitempty"`

	// condition
	Conditions []WorkflowCondition `json:"conditions,omitempty"`

	// wait_event
	EventName      string  `json:"eventName,omitempty"`
	TimeoutMinutes float64 `json:"timeoutMinutes,omitempty"`

	// loop
	MaxIterations int `json:"maxIterations,omitempty"`

	// transform
	Expression string `json:"expression,omitempty"`

	// ai_agent
	AgentID string `json:"agentId,omitempty"`
	Prompt  string `json:"prompt,omitempty"`

	// http_request
	URL     string            `json:"url,omitempty"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`

	// integration_*
	IntegrationID string         `json:"integrationId,omitempty"`
	Operation     string         `json:"operation,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// Branches holds the named successor references for non-linear step types:
// yes/no for condition, success/error for try_catch, timeout for wait_event,
// and the parallel fan-out list.
type Branches struct {
	Yes      string   `json:"yes,omitempty"`
	No       string   `json:"no,omitempty"`
	Success  string   `json:"success,omitempty"`
	Error    string   `json:"error,omitempty"`
	Timeout  string   `json:"timeout,omitempty"`
	Parallel []string `json:"parallel,omitempty"`
}

// Targets returns every non-empty branch target.
func (b *Branches) Targets() []string {
	if b == nil {
		return nil
	}

	targets := make([]string, 0, 5+len(b.Parallel))

	for _, id := range []string{b.Yes, b.No, b.Success, b.Error, b.Timeout} {
		if id != "" {
			targets = append(targets, id)
		}
	}

	targets = append(targets, b.Parallel...)

	return targets
}
