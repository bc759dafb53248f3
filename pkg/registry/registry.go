// Package registry catalogs the step types the builder can place on the
// canvas, together with a JSON Schema for each step's config payload.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/relaycrm/journey/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// StepDefinition describes one step type for the builder palette.
type StepDefinition struct {
	Type         models.StepType `json:"type"`
	Label        string          `json:"label"`
	Description  string          `json:"description"`
	ConfigSchema map[string]any  `json:"configSchema"`
}

// Registry holds the known step definitions. Schema findings are advisory:
// the validation package owns the blocking rules, the registry catches
// payload shape drift (wrong types, unknown enum values).
type Registry struct {
	logger      *slog.Logger
	definitions map[models.StepType]StepDefinition
}

func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		logger:      logger,
		definitions: make(map[models.StepType]StepDefinition),
	}

	for _, def := range builtinDefinitions() {
		r.Register(def)
	}

	return r
}

func (r *Registry) Register(def StepDefinition) {
	r.definitions[def.Type] = def
}

// Definition returns the definition for a step type. Integration steps share
// one definition keyed by the prefix.
func (r *Registry) Definition(stepType models.StepType) (StepDefinition, bool) {
	if stepType.IsIntegration() {
		def, ok := r.definitions[models.StepType(models.IntegrationPrefix+"*")]

		return def, ok
	}

	def, ok := r.definitions[stepType]

	return def, ok
}

// List returns every definition sorted by type for stable API responses.
func (r *Registry) List() []StepDefinition {
	definitions := make([]StepDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		definitions = append(definitions, def)
	}

	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Type < definitions[j].Type
	})

	return definitions
}

// ValidateStep checks a step's config payload against the schema for its
// type. Returns human-readable violation messages; an unknown step type is
// itself a violation.
func (r *Registry) ValidateStep(step *models.Step) ([]string, error) {
	def, ok := r.Definition(step.Type)
	if !ok {
		return []string{fmt.Sprintf("unknown step type: %s", step.Type)}, nil
	}

	if def.ConfigSchema == nil {
		return nil, nil
	}

	// Round-trip through JSON so the schema sees the wire shape of the config.
	raw, err := json.Marshal(step.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal step config: %w", err)
	}

	var configDoc map[string]any

	err = json.Unmarshal(raw, &configDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal step config: %w", err)
	}

	schemaLoader := gojsonschema.NewGoLoader(def.ConfigSchema)
	dataLoader := gojsonschema.NewGoLoader(configDoc)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate step config: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		violations = append(violations, violation.String())
	}

	return violations, nil
}

// HealthCheck reports whether the registry is usable.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.definitions) == 0 {
		return "Step registry is empty", false
	}

	return fmt.Sprintf("Step registry loaded with %d definitions", len(r.definitions)), true
}
