// Package main provides journey-lint, an offline checker for workflow
// definition files. It runs the same validation pass as the API so exported
// definitions can be verified in CI before an import.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/registry"
	"github.com/relaycrm/journey/pkg/validation"
)

// FileReport is the lint outcome for one definition file.
type FileReport struct {
	Path   string
	Result validation.Result
	Err    error
}

// HasErrors reports whether the file failed to parse or failed validation.
func (r FileReport) HasErrors() bool {
	return r.Err != nil || !r.Result.IsValid
}

func lintFile(reg *registry.Registry, path string) FileReport {
	report := FileReport{Path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("failed to read file: %w", err)

		return report
	}

	var workflow models.Workflow

	err = json.Unmarshal(raw, &workflow)
	if err != nil {
		report.Err = fmt.Errorf("failed to parse workflow JSON: %w", err)

		return report
	}

	report.Result = validation.ValidateWorkflow(&workflow)

	if reg == nil {
		return report
	}

	for _, step := range workflow.Steps {
		if step == nil {
			continue
		}

		violations, err := reg.ValidateStep(step)
		if err != nil {
			continue
		}

		for _, violation := range violations {
			report.Result.Warnings = append(report.Result.Warnings, validation.ValidationError{
				ID:       "schema-" + step.ID,
				NodeID:   step.ID,
				Type:     validation.ProblemConfiguration,
				Severity: validation.SeverityWarning,
				Message:  violation,
			})
		}
	}

	return report
}

func printReport(out io.Writer, report FileReport) {
	if report.Err != nil {
		fmt.Fprintf(out, "%s: %v\n", report.Path, report.Err)

		return
	}

	if report.Result.IsValid && len(report.Result.Warnings) == 0 {
		fmt.Fprintf(out, "%s: ok\n", report.Path)

		return
	}

	fmt.Fprintf(out, "%s: %d error(s), %d warning(s)\n",
		report.Path, len(report.Result.Errors), len(report.Result.Warnings))

	for _, problem := range report.Result.Errors {
		printProblem(out, problem)
	}

	for _, problem := range report.Result.Warnings {
		printProblem(out, problem)
	}
}

func printProblem(out io.Writer, problem validation.ValidationError) {
	location := ""
	if problem.NodeID != "" {
		location = " [" + problem.NodeID + "]"
	}

	fmt.Fprintf(out, "  %s%s: %s (%s)\n", problem.Severity, location, problem.Message, problem.ID)
}
