package validation

import "github.com/relaycrm/journey/pkg/models"

// TraverseConnections returns the set of step ids reachable from start by
// following NextStepIDs edges only. Branch targets are deliberately not
// traversed: the builder mirrors branch targets into nextStepIds, and the
// connectivity check relies on that convention. The visited set doubles as
// the recursion cutoff, so cyclic graphs terminate.
func TraverseConnections(start *models.Step, steps []*models.Step) map[string]bool {
	visited := make(map[string]bool, len(steps))

	if start == nil {
		return visited
	}

	byID := indexSteps(steps)

	var visit func(step *models.Step)
	visit = func(step *models.Step) {
		if visited[step.ID] {
			return
		}

		visited[step.ID] = true

		for _, nextID := range step.NextStepIDs {
			if next, ok := byID[nextID]; ok {
				visit(next)
			}
		}
	}

	visit(start)

	return visited
}

// DetectCycles reports whether any directed cycle exists among the steps'
// NextStepIDs edges. Classic three-color DFS: visited is black, recStack is
// gray; a gray-to-gray edge is a back-edge. Every step is tried as a root so
// cycles disconnected from the trigger are still caught. Existence only, no
// path is reported.
func DetectCycles(steps []*models.Step) bool {
	byID := indexSteps(steps)
	visited := make(map[string]bool, len(steps))
	recStack := make(map[string]bool, len(steps))

	var hasCycle func(step *models.Step) bool
	hasCycle = func(step *models.Step) bool {
		visited[step.ID] = true
		recStack[step.ID] = true

		for _, nextID := range step.NextStepIDs {
			next, ok := byID[nextID]
			if !ok {
				continue
			}

			if !visited[next.ID] {
				if hasCycle(next) {
					return true
				}
			} else if recStack[next.ID] {
				return true
			}
		}

		recStack[step.ID] = false

		return false
	}

	for _, step := range steps {
		if step == nil {
			continue
		}

		if !visited[step.ID] {
			if hasCycle(step) {
				return true
			}
		}
	}

	return false
}

// indexSteps skips nil entries so a JSON null in the steps array cannot
// poison the lookup table.
func indexSteps(steps []*models.Step) map[string]*models.Step {
	byID := make(map[string]*models.Step, len(steps))

	for _, step := range steps {
		if step != nil {
			byID[step.ID] = step
		}
	}

	return byID
}
