package testgen

import (
	"strings"

	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/vocab"
)

// massAssignmentVariants only applies to endpoints whose method
// carries a body. For each name in the suspicious-field vocabulary it
// injects a value chosen by a small set of name heuristics.
func (g *Generator) massAssignmentVariants(ep *model.Endpoint) []*model.TestCase {
	if !vocab.IsBodyMethod(ep.Method) {
		return nil
	}

	var out []*model.TestCase
	for _, field := range vocab.SuspiciousFields {
		if len(out) >= g.cfg.MassAssignmentCount {
			break
		}

		body := firstSampleBody(ep)
		if body == nil {
			body = map[string]interface{}{}
		}
		body[field] = massAssignmentValue(field)

		out = append(out, &model.TestCase{
			TestID:      g.nextTestID(),
			TestType:    model.TestTypeMassAssignment,
			Endpoint:    ep.TemplatedPath,
			Method:      ep.Method,
			URL:         ep.SampleURL,
			Body:        body,
			UseSession:  true,
			Description: "MASS_ASSIGNMENT: injected field " + field,
		})
	}

	return out
}

// massAssignmentValue picks an injected value by name heuristic
// (spec.md §4.3).
func massAssignmentValue(name string) interface{} {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "admin"), strings.HasPrefix(lower, "is"):
		return true
	case strings.Contains(lower, "role"):
		return "admin"
	case strings.Contains(lower, "permission"), strings.Contains(lower, "access"):
		return "full"
	default:
		return true
	}
}
