package validation

import (
	"fmt"

	"github.com/relaycrm/journey/pkg/models"
)

// ValidateWorkflow runs every structural and configuration check against a
// possibly-partial workflow and reports all findings as data. It is a pure
// function: no mutation, no I/O, never panics, and each check runs
// independently of earlier failures so the builder can surface every problem
// at once. A nil workflow or empty step list yields exactly the no-trigger
// error. Nil entries in the step list (a JSON null in the steps array) are
// treated as absent.
func ValidateWorkflow(workflow *models.Workflow) Result {
	errors := make([]ValidationError, 0)
	warnings := make([]ValidationError, 0)

	var steps []*models.Step

	if workflow != nil {
		steps = make([]*models.Step, 0, len(workflow.Steps))

		for _, step := range workflow.Steps {
			if step != nil {
				steps = append(steps, step)
			}
		}
	}

	errors = append(errors, checkTriggers(steps)...)
	errors = append(errors, checkConnectivity(steps)...)
	errors = append(errors, checkCycles(steps)...)

	conditionErrors, conditionWarnings := checkConditionSteps(steps)
	errors = append(errors, conditionErrors...)
	warnings = append(warnings, conditionWarnings...)

	errors = append(errors, checkActionSteps(steps)...)
	errors = append(errors, checkDelaySteps(steps)...)
	errors = append(errors, checkReferences(steps)...)

	return Result{
		IsValid:  len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

// checkTriggers enforces trigger cardinality (exactly one) and per-trigger
// configuration. The multiple-triggers error points at the second trigger in
// array order, matching what the builder highlights.
func checkTriggers(steps []*models.Step) []ValidationError {
	problems := make([]ValidationError, 0)

	triggers := make([]*models.Step, 0, 1)
	for _, step := range steps {
		if step.Type == models.StepTypeTrigger {
			triggers = append(triggers, step)
		}
	}

	switch {
	case len(triggers) == 0:
		problems = append(problems, ValidationError{
			ID:       "no-trigger",
			Type:     ProblemStructural,
			Severity: SeverityError,
			Message:  "Workflow must have exactly one trigger step",
		})
	case len(triggers) > 1:
		problems = append(problems, ValidationError{
			ID:       "multiple-triggers",
			NodeID:   triggers[1].ID,
			Type:     ProblemStructural,
			Severity: SeverityError,
			Message:  "Workflow can only have one trigger step",
		})
	}

	for _, trigger := range triggers {
		if trigger.Config.TriggerType == "" {
			problems = append(problems, ValidationError{
				ID:       "trigger-no-type-" + trigger.ID,
				NodeID:   trigger.ID,
				Type:     ProblemConfiguration,
				Severity: SeverityError,
				Message:  "Trigger step must have a trigger type selected",
			})
		}
	}

	return problems
}

// checkConnectivity walks forward from the first trigger and flags every
// non-trigger step outside the reachable set. With no trigger present nothing
// is reachable, so every non-trigger step is reported as an orphan on top of
// the no-trigger error.
func checkConnectivity(steps []*models.Step) []ValidationError {
	problems := make([]ValidationError, 0)

	var start *models.Step

	for _, step := range steps {
		if step.Type == models.StepTypeTrigger {
			start = step

			break
		}
	}

	reachable := TraverseConnections(start, steps)

	for _, step := range steps {
		if step.Type == models.StepTypeTrigger {
			continue
		}

		if !reachable[step.ID] {
			problems = append(problems, ValidationError{
				ID:       "orphan-" + step.ID,
				NodeID:   step.ID,
				Type:     ProblemStructural,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s is not connected to the workflow", step.Label()),
			})
		}
	}

	return problems
}

// checkCycles reports a single workflow-level error when any cycle exists,
// regardless of how many distinct cycles there are.
func checkCycles(steps []*models.Step) []ValidationError {
	if !DetectCycles(steps) {
		return nil
	}

	return []ValidationError{{
		ID:       "circular-loop",
		Type:     ProblemStructural,
		Severity: SeverityError,
		Message:  "Workflow contains a circular loop",
	}}
}

func checkConditionSteps(steps []*models.Step) ([]ValidationError, []ValidationError) {
	errors := make([]ValidationError, 0)
	warnings := make([]ValidationError, 0)

	for _, step := range steps {
		if step.Type != models.StepTypeCondition {
			continue
		}

		if len(step.NextStepIDs) < 2 {
			warnings = append(warnings, ValidationError{
				ID:       "condition-incomplete-" + step.ID,
				NodeID:   step.ID,
				Type:     ProblemStructural,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s should have both Yes and No paths", step.Label()),
			})
		}

		if len(step.Config.Conditions) == 0 {
			errors = append(errors, ValidationError{
				ID:       "condition-no-config-" + step.ID,
				NodeID:   step.ID,
				Type:     ProblemConfiguration,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s has no conditions configured", step.Label()),
			})
		}
	}

	return errors, warnings
}

func checkActionSteps(steps []*models.Step) []ValidationError {
	problems := make([]ValidationError, 0)

	for _, step := range steps {
		if step.Type != models.StepTypeAction {
			continue
		}

		if step.Config.ActionType == "" {
			problems = append(problems, ValidationError{
				ID:       "action-no-type-" + step.ID,
				NodeID:   step.ID,
				Type:     ProblemConfiguration,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s must have an action type selected", step.Label()),
			})

			continue
		}

		problems = append(problems, checkActionConfig(step)...)
	}

	return problems
}

// checkActionConfig applies the per-action-type required-field rules. Each
// missing field is its own error with a type-specific id suffix.
func checkActionConfig(step *models.Step) []ValidationError {
	problems := make([]ValidationError, 0)

	missing := func(id, field string) ValidationError {
		return ValidationError{
			ID:       id + "-" + step.ID,
			NodeID:   step.ID,
			Type:     ProblemConfiguration,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%s is missing %s", step.Label(), field),
		}
	}

	switch step.Config.ActionType {
	case models.ActionTypeSendEmail:
		if step.Config.EmailSubject == "" {
			problems = append(problems, missing("action-email-subject", "an email subject"))
		}

		if step.Config.EmailBody == "" {
			problems = append(problems, missing("action-email-body", "an email body"))
		}
	case models.ActionTypeCreateTask:
		if step.Config.TaskTitle == "" {
			problems = append(problems, missing("action-task-title", "a task title"))
		}
	case models.ActionTypeUpdateField:
		if step.Config.FieldName == "" {
			problems = append(problems, missing("action-field-name", "a field name"))
		}
	case models.ActionTypeAddTag, models.ActionTypeRemoveTag:
		if step.Config.TagName == "" {
			problems = append(problems, missing("action-tag-name", "a tag name"))
		}
	}

	return problems
}

func checkDelaySteps(steps []*models.Step) []ValidationError {
	problems := make([]ValidationError, 0)

	for _, step := range steps {
		if step.Type != models.StepTypeDelay {
			continue
		}

		if step.Config.DelayValue <= 0 {
			problems = append(problems, ValidationError{
				ID:       "delay-invalid-" + step.ID,
				NodeID:   step.ID,
				Type:     ProblemConfiguration,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s must have a positive delay value", step.Label()),
			})
		}
	}

	return problems
}

// checkReferences flags next-step and branch targets that name a step id not
// present in the workflow. One error per referring step.
func checkReferences(steps []*models.Step) []ValidationError {
	problems := make([]ValidationError, 0)
	byID := indexSteps(steps)

	for _, step := range steps {
		dangling := false

		for _, id := range step.NextStepIDs {
			if _, ok := byID[id]; !ok {
				dangling = true
			}
		}

		for _, id := range step.Branches.Targets() {
			if _, ok := byID[id]; !ok {
				dangling = true
			}
		}

		if dangling {
			problems = append(problems, ValidationError{
				ID:       "dangling-" + step.ID,
				NodeID:   step.ID,
				Type:     ProblemStructural,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s references a step that no longer exists", step.Label()),
			})
		}
	}

	return problems
}
