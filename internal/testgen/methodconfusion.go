package testgen

import (
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/vocab"
)

// methodConfusionVariants sends the endpoint's templated path,
// unconcretized, under every other HTTP method (spec.md §9 pins the
// open question on this point: template-literal, not concretized, for
// determinism).
func (g *Generator) methodConfusionVariants(ep *model.Endpoint) []*model.TestCase {
	var out []*model.TestCase

	for _, method := range vocab.Methods {
		if method == ep.Method {
			continue
		}
		if vocab.IsDestructive(method) && !g.cfg.AllowDestructive {
			continue
		}

		var body map[string]interface{}
		if vocab.IsBodyMethod(method) {
			body = firstSampleBody(ep)
		}

		out = append(out, &model.TestCase{
			TestID:      g.nextTestID(),
			TestType:    model.TestTypeMethodConfusion,
			Endpoint:    ep.TemplatedPath,
			Method:      method,
			URL:         buildURL(ep.SampleURL, ep.TemplatedPath),
			Body:        body,
			UseSession:  true,
			Description: "METHOD_CONFUSION: " + method + " against " + ep.TemplatedPath,
		})

		if len(out) >= g.cfg.MethodConfusionCount {
			break
		}
	}

	return out
}
