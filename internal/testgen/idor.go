package testgen

import (
	"strings"

	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/vocab"
)

// idorVariants requires the endpoint to have at least one IDPool.
// Each variant swaps in an identifier borrowed from a different named
// pool in the cross-endpoint union.
func (g *Generator) idorVariants(ep *model.Endpoint, union map[string]*model.IDPool) []*model.TestCase {
	if len(ep.IDPools) == 0 {
		return nil
	}

	sourceNames := sortedKeys(ep.IDPools)
	var out []*model.TestCase

	for i := 0; i < g.cfg.IDORCount; i++ {
		srcName := sourceNames[g.rng.Intn(len(sourceNames))]
		srcPool := ep.IDPools[srcName]
		values := srcPool.Values()
		if len(values) == 0 {
			continue
		}
		originalID := values[g.rng.Intn(len(values))]

		targetID, ok := crossPoolCandidate(union, srcName, originalID)
		if !ok {
			break
		}

		newPath := concretizePath(ep.TemplatedPath, targetID)
		testURL := buildURL(ep.SampleURL, newPath)

		var body map[string]interface{}
		if sample := firstSampleBody(ep); sample != nil {
			body = substituteIDInBody(sample, srcName, targetID)
		}

		out = append(out, &model.TestCase{
			TestID:      g.nextTestID(),
			TestType:    model.TestTypeIDOR,
			Endpoint:    ep.TemplatedPath,
			Method:      ep.Method,
			URL:         testURL,
			Body:        body,
			UseSession:  true,
			Description: "IDOR: substituted " + srcName + " " + originalID + " -> " + targetID,
		})
	}

	return out
}

// crossPoolCandidate searches pool names in union other than srcName,
// in stable (sorted) order, for a value different from originalID.
func crossPoolCandidate(union map[string]*model.IDPool, srcName, originalID string) (string, bool) {
	names := sortedKeys(union)
	for _, name := range names {
		if name == srcName {
			continue
		}
		for _, v := range union[name].Values() {
			if v != originalID {
				return v, true
			}
		}
	}
	return "", false
}

func substituteIDInBody(body map[string]interface{}, poolName, targetID string) map[string]interface{} {
	baseName := strings.TrimPrefix(poolName, "body.")
	out := cloneBody(body)
	for k := range out {
		if strings.EqualFold(k, baseName) || vocab.MatchesAny(k, []string{"id"}) {
			out[k] = targetID
		}
	}
	return out
}
