package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_UnmarshalsBuilderWireFormat(t *testing.T) {
	payload := `{
		"id": "a1",
		"type": "action",
		"name": "Welcome email",
		"config": {
			"actionType": "send_email",
			"emailSubject": "Hi",
			"emailBody": "Welcome aboard"
		},
		"position": {"x": 120, "y": 340},
		"nextStepIds": ["d1"],
		"branches": {"success": "d1", "error": "e1"}
	}`

	var step Step
	require.NoError(t, json.Unmarshal([]byte(payload), &step))

	assert.Equal(t, "a1", step.ID)
	assert.Equal(t, StepTypeAction, step.Type)
	assert.Equal(t, ActionTypeSendEmail, step.Config.ActionType)
	assert.Equal(t, []string{"d1"}, step.NextStepIDs)
	assert.Equal(t, []string{"d1", "e1"}, step.Branches.Targets())
}

func TestStepType_IsIntegration(t *testing.T) {
	assert.True(t, StepType("integration_slack").IsIntegration())
	assert.False(t, StepTypeAction.IsIntegration())
}

func TestBranches_Targets(t *testing.T) {
	var none *Branches

	assert.Nil(t, none.Targets())

	branches := &Branches{Yes: "y", No: "n", Parallel: []string{"p1", "p2"}}
	assert.Equal(t, []string{"y", "n", "p1", "p2"}, branches.Targets())
}

func TestStep_Label(t *testing.T) {
	named := &Step{ID: "s1", Type: StepTypeDelay, Name: "Wait a day"}
	assert.Equal(t, "Wait a day", named.Label())

	unnamed := &Step{ID: "s2", Type: StepTypeDelay}
	assert.Equal(t, "delay", unnamed.Label())
}

func TestWorkflow_Triggers(t *testing.T) {
	workflow := &Workflow{Steps: []*Step{
		{ID: "a1", Type: StepTypeAction},
		{ID: "t1", Type: StepTypeTrigger},
		{ID: "t2", Type: StepTypeTrigger},
	}}

	triggers := workflow.Triggers()
	require.Len(t, triggers, 2)
	assert.Equal(t, "t1", triggers[0].ID)
	assert.Equal(t, "t2", triggers[1].ID)
}

func TestWorkflow_StepByID(t *testing.T) {
	workflow := &Workflow{Steps: []*Step{{ID: "a1", Type: StepTypeAction}}}

	assert.NotNil(t, workflow.StepByID("a1"))
	assert.Nil(t, workflow.StepByID("missing"))
}
