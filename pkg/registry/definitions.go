package registry

import "github.com/relaycrm/journey/pkg/models"

func builtinDefinitions() []StepDefinition {
	return []StepDefinition{
		{
			Type:        models.StepTypeTrigger,
			Label:       "Trigger",
			Description: "Entry point that enrolls records into the workflow",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"triggerType"},
				"properties": map[string]any{
					"triggerType": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
				},
			},
		},
		{
			Type:        models.StepTypeAction,
			Label:       "Action",
			Description: "Performs a CRM operation such as sending an email or creating a task",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"actionType"},
				"properties": map[string]any{
					"actionType": map[string]any{
						"type": "string",
						"enum": []any{
							string(models.ActionTypeSendEmail),
							string(models.ActionTypeCreateTask),
							string(models.ActionTypeUpdateField),
							string(models.ActionTypeAddTag),
							string(models.ActionTypeRemoveTag),
						},
					},
					"emailSubject": map[string]any{"type": "string"},
					"emailBody":    map[string]any{"type": "string"},
					"taskTitle":    map[string]any{"type": "string"},
					"fieldName":    map[string]any{"type": "string"},
					"fieldValue":   map[string]any{"type": "string"},
					"tagName":      map[string]any{"type": "string"},
				},
			},
		},
		{
			Type:        models.StepTypeDelay,
			Label:       "Delay",
			Description: "Pauses enrolled records for a fixed amount of time",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"delayValue", "delayUnit"},
				"properties": map[string]any{
					"delayValue": map[string]any{
						"type":             "number",
						"exclusiveMinimum": 0,
					},
					"delayUnit": map[string]any{
						"type": "string",
						"enum": []any{"minutes", "hours", "days"},
					},
				},
			},
		},
		{
			Type:        models.StepTypeCondition,
			Label:       "If/Then Branch",
			Description: "Routes records down the yes or no branch based on field conditions",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"conditions"},
				"properties": map[string]any{
					"conditions": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":     "object",
							"required": []any{"field", "operator"},
							"properties": map[string]any{
								"field":    map[string]any{"type": "string", "minLength": 1},
								"operator": map[string]any{"type": "string", "minLength": 1},
							},
						},
					},
				},
			},
		},
		{
			Type:        models.StepTypeWaitEvent,
			Label:       "Wait for Event",
			Description: "Holds records until an external event arrives or a timeout elapses",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"eventName"},
				"properties": map[string]any{
					"eventName":      map[string]any{"type": "string", "minLength": 1},
					"timeoutMinutes": map[string]any{"type": "number", "minimum": 0},
				},
			},
		},
		{
			Type:         models.StepTypeParallel,
			Label:        "Parallel Split",
			Description:  "Runs multiple branches concurrently",
			ConfigSchema: nil,
		},
		{
			Type:         models.StepTypeMerge,
			Label:        "Merge",
			Description:  "Joins parallel branches back into a single path",
			ConfigSchema: nil,
		},
		{
			Type:        models.StepTypeLoop,
			Label:       "Loop",
			Description: "Repeats a section of the workflow up to a bounded number of times",
			ConfigSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"maxIterations": map[string]any{"type": "integer", "minimum": 1},
				},
			},
		},
		{
			Type:        models.StepTypeTransform,
			Label:       "Transform",
			Description: "Reshapes record data with an expression",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"expression"},
				"properties": map[string]any{
					"expression": map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
		{
			Type:         models.StepTypeTryCatch,
			Label:        "Try/Catch",
			Description:  "Wraps a branch with error handling",
			ConfigSchema: nil,
		},
		{
			Type:        models.StepTypeAIAgent,
			Label:       "AI Agent",
			Description: "Delegates a task to a configured AI agent",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"agentId"},
				"properties": map[string]any{
					"agentId": map[string]any{"type": "string", "minLength": 1},
					"prompt":  map[string]any{"type": "string"},
				},
			},
		},
		{
			Type:        models.StepTypeHTTPRequest,
			Label:       "HTTP Request",
			Description: "Calls an external HTTP endpoint",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"url", "method"},
				"properties": map[string]any{
					"url": map[string]any{"type": "string", "minLength": 1},
					"method": map[string]any{
						"type": "string",
						"enum": []any{"GET", "POST", "PUT", "PATCH", "DELETE"},
					},
					"headers": map[string]any{"type": "object"},
					"body":    map[string]any{"type": "string"},
				},
			},
		},
		{
			Type:        models.StepType(models.IntegrationPrefix + "*"),
			Label:       "Integration",
			Description: "Invokes an operation on a connected third-party integration",
			ConfigSchema: map[string]any{
				"type":     "object",
				"required": []any{"integrationId", "operation"},
				"properties": map[string]any{
					"integrationId": map[string]any{"type": "string", "minLength": 1},
					"operation":     map[string]any{"type": "string", "minLength": 1},
					"parameters":    map[string]any{"type": "object"},
				},
			},
		},
	}
}
