package validation

import (
	"encoding/json"
	"testing"

	"github.com/relaycrm/journey/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trigger(id, triggerType string, next ...string) *models.Step {
	return &models.Step{
		ID:          id,
		Type:        models.StepTypeTrigger,
		Config:      models.StepConfig{TriggerType: triggerType},
		NextStepIDs: next,
	}
}

func action(id string, config models.StepConfig, next ...string) *models.Step {
	return &models.Step{
		ID:          id,
		Type:        models.StepTypeAction,
		Config:      config,
		NextStepIDs: next,
	}
}

func errorIDs(result Result) []string {
	ids := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		ids = append(ids, e.ID)
	}

	return ids
}

func warningIDs(result Result) []string {
	ids := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		ids = append(ids, w.ID)
	}

	return ids
}

func TestValidateWorkflow_EmptyWorkflow(t *testing.T) {
	result := ValidateWorkflow(&models.Workflow{})

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "no-trigger", result.Errors[0].ID)
	assert.Empty(t, result.Errors[0].NodeID)
	assert.Empty(t, result.Warnings)
}

func TestValidateWorkflow_NilWorkflow(t *testing.T) {
	result := ValidateWorkflow(nil)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "no-trigger", result.Errors[0].ID)
}

func TestValidateWorkflow_NullStepEntries(t *testing.T) {
	// A JSON null in the steps array unmarshals into a nil *Step. The
	// validator treats it as absent instead of dereferencing it.
	var workflow models.Workflow
	require.NoError(t, json.Unmarshal([]byte(`{"steps":[null]}`), &workflow))
	require.Len(t, workflow.Steps, 1)
	require.Nil(t, workflow.Steps[0])

	result := ValidateWorkflow(&workflow)

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"no-trigger"}, errorIDs(result))
}

func TestValidateWorkflow_NullStepAmongValidSteps(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "a1"),
		nil,
		action("a1", models.StepConfig{
			ActionType:   models.ActionTypeSendEmail,
			EmailSubject: "Hi",
			EmailBody:    "Body",
		}),
	}}

	result := ValidateWorkflow(workflow)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestDetectCycles_NilEntries(t *testing.T) {
	steps := []*models.Step{nil, step("a", "b"), step("b")}

	assert.False(t, DetectCycles(steps))
}

func TestValidateWorkflow_MultipleTriggers(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created"),
		trigger("t2", "deal_created"),
	}}

	result := ValidateWorkflow(workflow)

	assert.False(t, result.IsValid)
	assert.Contains(t, errorIDs(result), "multiple-triggers")

	for _, e := range result.Errors {
		if e.ID == "multiple-triggers" {
			assert.Equal(t, "t2", e.NodeID, "error must point at the second trigger in array order")
		}
	}
}

func TestValidateWorkflow_TriggerMissingType(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{trigger("t1", "")}}

	result := ValidateWorkflow(workflow)

	assert.False(t, result.IsValid)
	assert.Contains(t, errorIDs(result), "trigger-no-type-t1")
}

func TestValidateWorkflow_ValidSendEmailFlow(t *testing.T) {
	// Scenario: trigger -> configured send_email action.
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "a1"),
		action("a1", models.StepConfig{
			ActionType:   models.ActionTypeSendEmail,
			EmailSubject: "Hi",
			EmailBody:    "Body",
		}),
	}}

	result := ValidateWorkflow(workflow)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidateWorkflow_ActionMissingType(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "a1"),
		action("a1", models.StepConfig{}),
	}}

	result := ValidateWorkflow(workflow)

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"action-no-type-a1"}, errorIDs(result))
}

func TestValidateWorkflow_OrphanStep(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "a1"),
		action("a1", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "hot"}),
		action("a2", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "cold"}),
	}}

	result := ValidateWorkflow(workflow)

	assert.False(t, result.IsValid)
	assert.Contains(t, errorIDs(result), "orphan-a2")
	assert.NotContains(t, errorIDs(result), "orphan-a1")
}

func TestValidateWorkflow_NoTriggerOrphansEverything(t *testing.T) {
	// With no trigger nothing is reachable, so every non-trigger step is
	// flagged on top of the no-trigger error.
	workflow := &models.Workflow{Steps: []*models.Step{
		action("a1", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "x"}, "a2"),
		action("a2", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "y"}),
	}}

	result := ValidateWorkflow(workflow)

	ids := errorIDs(result)
	assert.Contains(t, ids, "no-trigger")
	assert.Contains(t, ids, "orphan-a1")
	assert.Contains(t, ids, "orphan-a2")
}

func TestValidateWorkflow_InvalidDelay(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "d1"),
		{
			ID:     "d1",
			Type:   models.StepTypeDelay,
			Config: models.StepConfig{DelayValue: 0},
		},
	}}

	result := ValidateWorkflow(workflow)

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"delay-invalid-d1"}, errorIDs(result))
}

func TestValidateWorkflow_CircularLoop(t *testing.T) {
	// t1 -> c1 -> t1 forms a cycle; one workflow-level error regardless of
	// how the cycle is shaped.
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "c1"),
		{
			ID:   "c1",
			Type: models.StepTypeCondition,
			Config: models.StepConfig{Conditions: []models.WorkflowCondition{
				{Field: "status", Operator: models.OperatorEquals, Value: "won"},
			}},
			NextStepIDs: []string{"t1"},
		},
	}}

	result := ValidateWorkflow(workflow)

	assert.False(t, result.IsValid)
	assert.Contains(t, errorIDs(result), "circular-loop")

	count := 0
	for _, e := range result.Errors {
		if e.ID == "circular-loop" {
			count++
			assert.Empty(t, e.NodeID)
		}
	}

	assert.Equal(t, 1, count)
}

func TestValidateWorkflow_MultipleDistinctCyclesSingleError(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "a1"),
		action("a1", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "x"}, "a2"),
		action("a2", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "y"}, "a1"),
		action("b1", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "z"}, "b2"),
		action("b2", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "w"}, "b1"),
	}}

	result := ValidateWorkflow(workflow)

	count := 0
	for _, e := range result.Errors {
		if e.ID == "circular-loop" {
			count++
		}
	}

	assert.Equal(t, 1, count, "cycle existence is reported once, not enumerated")
}

func TestValidateWorkflow_ConditionWithoutConfig(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "c1"),
		{
			ID:          "c1",
			Type:        models.StepTypeCondition,
			Config:      models.StepConfig{Conditions: []models.WorkflowCondition{}},
			NextStepIDs: []string{"t1"},
		},
	}}

	result := ValidateWorkflow(workflow)

	// The config error fires independently of how many next steps exist.
	assert.Contains(t, errorIDs(result), "condition-no-config-c1")
}

func TestValidateWorkflow_ConditionIncompleteIsWarningOnly(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "c1"),
		{
			ID:   "c1",
			Type: models.StepTypeCondition,
			Config: models.StepConfig{Conditions: []models.WorkflowCondition{
				{Field: "status", Operator: models.OperatorEquals, Value: "won"},
			}},
			NextStepIDs: []string{"a1"},
		},
		action("a1", models.StepConfig{ActionType: models.ActionTypeCreateTask, TaskTitle: "Call"}),
	}}

	result := ValidateWorkflow(workflow)

	assert.Contains(t, warningIDs(result), "condition-incomplete-c1")
	assert.True(t, result.IsValid, "warnings never affect validity")
	assert.Empty(t, result.Errors)
}

func TestValidateWorkflow_SendEmailMissingFields(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "a1"),
		action("a1", models.StepConfig{ActionType: models.ActionTypeSendEmail}),
	}}

	result := ValidateWorkflow(workflow)

	ids := errorIDs(result)
	assert.Contains(t, ids, "action-email-subject-a1")
	assert.Contains(t, ids, "action-email-body-a1")
}

func TestValidateWorkflow_ActionFieldChecks(t *testing.T) {
	tests := []struct {
		name       string
		config     models.StepConfig
		expectedID string
	}{
		{
			name:       "create_task without title",
			config:     models.StepConfig{ActionType: models.ActionTypeCreateTask},
			expectedID: "action-task-title-a1",
		},
		{
			name:       "update_field without field name",
			config:     models.StepConfig{ActionType: models.ActionTypeUpdateField},
			expectedID: "action-field-name-a1",
		},
		{
			name:       "add_tag without tag name",
			config:     models.StepConfig{ActionType: models.ActionTypeAddTag},
			expectedID: "action-tag-name-a1",
		},
		{
			name:       "remove_tag without tag name",
			config:     models.StepConfig{ActionType: models.ActionTypeRemoveTag},
			expectedID: "action-tag-name-a1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflow := &models.Workflow{Steps: []*models.Step{
				trigger("t1", "contact_created", "a1"),
				action("a1", tt.config),
			}}

			result := ValidateWorkflow(workflow)

			assert.Equal(t, []string{tt.expectedID}, errorIDs(result))
		})
	}
}

func TestValidateWorkflow_DanglingReference(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "ghost"),
	}}

	result := ValidateWorkflow(workflow)

	assert.Contains(t, errorIDs(result), "dangling-t1")
}

func TestValidateWorkflow_DanglingBranchTarget(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "contact_created", "c1"),
		{
			ID:   "c1",
			Type: models.StepTypeCondition,
			Config: models.StepConfig{Conditions: []models.WorkflowCondition{
				{Field: "status", Operator: models.OperatorEquals, Value: "won"},
			}},
			NextStepIDs: []string{"a1", "a2"},
			Branches:    &models.Branches{Yes: "a1", No: "missing"},
		},
		action("a1", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "x"}),
		action("a2", models.StepConfig{ActionType: models.ActionTypeAddTag, TagName: "y"}),
	}}

	result := ValidateWorkflow(workflow)

	assert.Contains(t, errorIDs(result), "dangling-c1")
}

func TestValidateWorkflow_Idempotent(t *testing.T) {
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "", "a1"),
		action("a1", models.StepConfig{ActionType: models.ActionTypeSendEmail}),
		{
			ID:          "c1",
			Type:        models.StepTypeCondition,
			Config:      models.StepConfig{},
			NextStepIDs: []string{"a1"},
		},
	}}

	first := ValidateWorkflow(workflow)
	second := ValidateWorkflow(workflow)

	assert.Equal(t, first, second)
}

func TestValidateWorkflow_AllChecksRunWithoutShortCircuit(t *testing.T) {
	// A workflow broken in several independent ways reports all of them.
	workflow := &models.Workflow{Steps: []*models.Step{
		trigger("t1", "", "a1"),
		trigger("t2", "contact_created"),
		action("a1", models.StepConfig{}, "a1"),
		{
			ID:     "d1",
			Type:   models.StepTypeDelay,
			Config: models.StepConfig{DelayValue: -5},
		},
	}}

	result := ValidateWorkflow(workflow)

	ids := errorIDs(result)
	assert.Contains(t, ids, "multiple-triggers")
	assert.Contains(t, ids, "trigger-no-type-t1")
	assert.Contains(t, ids, "orphan-d1")
	assert.Contains(t, ids, "circular-loop")
	assert.Contains(t, ids, "action-no-type-a1")
	assert.Contains(t, ids, "delay-invalid-d1")
}
