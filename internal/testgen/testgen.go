// Package testgen implements the Adversarial Test Generator (spec.md
// §4.3): for each enriched Endpoint, it synthesizes up to
// max_tests_per_endpoint TestCases spanning four vulnerability
// classes. Generation is deterministic given a fixed seed: each
// Generator owns a *rand.Rand seeded from configuration rather than
// drawing on the global math/rand source, so a run is
// bit-reproducible.
package testgen

import (
	"math/rand"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/surfacerecon/surfacerecon/internal/config"
	"github.com/surfacerecon/surfacerecon/internal/limits"
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/vocab"
)

// Generator synthesizes TestCases from an enriched Endpoint set.
type Generator struct {
	cfg     *config.Config
	rng     *rand.Rand
	counter int
}

// New builds a Generator seeded from cfg.Seed.
func New(cfg *config.Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesizes the full test-case set for every endpoint.
func (g *Generator) Generate(endpoints []*model.Endpoint) []*model.TestCase {
	union := poolUnion(endpoints)

	var all []*model.TestCase
	for _, ep := range endpoints {
		if vocab.IsPaymentPath(ep.TemplatedPath) {
			continue
		}
		all = append(all, g.forEndpoint(ep, union)...)
	}
	return all
}

func (g *Generator) forEndpoint(ep *model.Endpoint, union map[string]*model.IDPool) []*model.TestCase {
	var tests []*model.TestCase
	tests = append(tests, g.idorVariants(ep, union)...)
	tests = append(tests, g.authBypassVariants(ep)...)
	tests = append(tests, g.methodConfusionVariants(ep)...)
	tests = append(tests, g.massAssignmentVariants(ep)...)

	if len(tests) > g.cfg.MaxTestsPerEndpoint {
		tests = tests[:g.cfg.MaxTestsPerEndpoint]
	}
	return tests
}

func (g *Generator) nextTestID() string {
	g.counter++
	return "test_" + strconv.Itoa(g.counter)
}

// poolUnion merges every endpoint's IDPools by name into one
// cross-endpoint pool per name, so an IDOR variant for one endpoint
// can borrow an identifier observed only at another.
func poolUnion(endpoints []*model.Endpoint) map[string]*model.IDPool {
	union := map[string]*model.IDPool{}
	for _, ep := range endpoints {
		for name, pool := range ep.IDPools {
			merged := union[name]
			if merged == nil {
				merged = &model.IDPool{Name: name, Location: pool.Location}
				union[name] = merged
			}
			for _, v := range pool.Integers {
				merged.Integers = appendDistinctCapped(merged.Integers, v)
			}
			for _, v := range pool.UUIDs {
				merged.UUIDs = appendDistinctCapped(merged.UUIDs, v)
			}
			for _, v := range pool.Strings {
				merged.Strings = appendDistinctCapped(merged.Strings, v)
			}
		}
	}
	return union
}

var bucketCap = limits.Default().MaxPoolBucket

func appendDistinctCapped(bucket []string, value string) []string {
	return limits.AppendDistinctCapped(bucket, value, bucketCap)
}

func sortedKeys(m map[string]*model.IDPool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isPlaceholder(segment string) bool {
	switch segment {
	case "{id:int}", "{id:uuid}", "{param}":
		return true
	default:
		return false
	}
}

// concretizePath substitutes value into every placeholder segment of
// templatedPath.
func concretizePath(templatedPath, value string) string {
	segs := strings.Split(templatedPath, "/")
	for i, s := range segs {
		if isPlaceholder(s) {
			segs[i] = value
		}
	}
	return strings.Join(segs, "/")
}

// buildURL replaces sampleURL's path with newPath while preserving
// scheme, host, and query string (spec.md §9: concretize against the
// original absolute URL, not the bare template).
func buildURL(sampleURL, newPath string) string {
	u, err := url.Parse(sampleURL)
	if err != nil {
		return newPath
	}
	u.Path = newPath
	return u.String()
}

func cloneBody(body map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(body))
	for k, v := range body {
		out[k] = v
	}
	return out
}

func firstSampleBody(ep *model.Endpoint) map[string]interface{} {
	if len(ep.SampleBodies) == 0 {
		return nil
	}
	return cloneBody(ep.SampleBodies[0])
}
