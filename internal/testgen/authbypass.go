package testgen

import "github.com/surfacerecon/surfacerecon/internal/model"

// authBypassVariants emits count copies of the endpoint's own request
// with use_session=false, so the replay engine omits the session
// cookies. Session headers are still sent.
func (g *Generator) authBypassVariants(ep *model.Endpoint) []*model.TestCase {
	out := make([]*model.TestCase, 0, g.cfg.AuthBypassCount)
	body := firstSampleBody(ep)

	for i := 0; i < g.cfg.AuthBypassCount; i++ {
		out = append(out, &model.TestCase{
			TestID:      g.nextTestID(),
			TestType:    model.TestTypeAuthBypass,
			Endpoint:    ep.TemplatedPath,
			Method:      ep.Method,
			URL:         ep.SampleURL,
			Body:        body,
			UseSession:  false,
			Description: "AUTH_BYPASS: replay without session material",
		})
	}

	return out
}
