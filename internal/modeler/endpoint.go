// Package modeler implements the Endpoint Modeler (spec.md §4.1): it
// collapses a captured HTTP log into a minimal set of Endpoints with
// templated paths and parameter inventories.
package modeler

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/surfacerecon/surfacerecon/internal/capture"
	"github.com/surfacerecon/surfacerecon/internal/classify"
	"github.com/surfacerecon/surfacerecon/internal/limits"
	"github.com/surfacerecon/surfacerecon/internal/model"
)

var (
	maxParamValues  = limits.Default().MaxParamValues
	maxSampleBodies = limits.Default().MaxSampleBodies
)

type group struct {
	method   string
	segments [][]string // segments[i] = set of concrete values seen at position i, across all requests
	queries  map[string][]string
	bodies   []map[string]interface{}
	raw      []capture.Request
}

func splitPath(p string) []string {
	trimmed := strings.TrimPrefix(p, "/")
	if trimmed == "" {
		return []string{""}
	}
	return append([]string{""}, strings.Split(trimmed, "/")...)
}

// Model groups requests by (method, path-shape) and derives Endpoints.
func Model(requests []capture.Request) ([]*model.Endpoint, error) {
	requests = capture.WithResponse(requests)

	groups := map[string]*group{}
	var order []string

	for _, req := range requests {
		u, err := url.Parse(req.URL)
		if err != nil {
			continue
		}

		segs := splitPath(u.Path)
		key := req.Method + " " + groupKey(segs)

		g, ok := groups[key]
		if !ok {
			g = &group{
				method:   req.Method,
				segments: make([][]string, len(segs)),
				queries:  map[string][]string{},
			}
			groups[key] = g
			order = append(order, key)
		}

		for i, s := range segs {
			if i >= len(g.segments) {
				g.segments = append(g.segments, []string{})
			}
			g.segments[i] = appendDistinct(g.segments[i], s)
		}
		g.raw = append(g.raw, req)

		for name, values := range u.Query() {
			for _, v := range values {
				g.queries[name] = appendCapped(g.queries[name], v, maxParamValues)
			}
		}

		if req.PostData != "" {
			var body map[string]interface{}
			if err := json.Unmarshal([]byte(req.PostData), &body); err == nil {
				g.bodies = appendDistinctBody(g.bodies, body)
			}
		}
	}

	endpoints := make([]*model.Endpoint, 0, len(order))
	for _, key := range order {
		g := groups[key]
		endpoints = append(endpoints, buildEndpoint(g))
	}

	return endpoints, nil
}

// groupKey derives the path-shape grouping key from the segment count
// and the ID-classified positions only, never from literal segment
// text. Two concrete paths that differ at a generic segment
// ("/blog/alpha" vs "/blog/beta") therefore land in the same group,
// and templating across the group decides afterwards whether each
// position stays literal or becomes a placeholder.
func groupKey(segs []string) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		if i == 0 {
			parts[i] = ""
			continue
		}
		switch classify.Value(s) {
		case classify.KindInt, classify.KindUUID:
			parts[i] = "#"
		default:
			parts[i] = "*"
		}
	}
	return strings.Join(parts, "/")
}

func appendDistinct(slice []string, value string) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	return append(slice, value)
}

func appendCapped(slice []string, value string, cap int) []string {
	return limits.AppendDistinctCapped(slice, value, cap)
}

func appendDistinctBody(bodies []map[string]interface{}, body map[string]interface{}) []map[string]interface{} {
	if len(bodies) >= maxSampleBodies {
		return bodies
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return bodies
	}
	for _, b := range bodies {
		existing, err := json.Marshal(b)
		if err == nil && string(existing) == string(encoded) {
			return bodies
		}
	}
	return append(bodies, body)
}

// buildEndpoint derives the templated path, per-segment path
// parameters, and the endpoint's parameter inventory from a group of
// requests sharing a method and path shape.
func buildEndpoint(g *group) *model.Endpoint {
	templateSegs := make([]string, len(g.segments))
	pathParams := map[string][]string{}

	for i, values := range g.segments {
		if i == 0 {
			templateSegs[i] = ""
			continue
		}

		// Synthetic parameter names are numbered over the real path
		// parts (excluding the always-empty leading segment), so the
		// first part after the leading slash is param_0.
		name := paramName(i - 1)

		switch classifySegment(values) {
		case classify.KindInt:
			templateSegs[i] = "{id:int}"
			pathParams[name] = values
		case classify.KindUUID:
			templateSegs[i] = "{id:uuid}"
			pathParams[name] = values
		default:
			if len(values) > 1 {
				templateSegs[i] = "{param}"
				pathParams[name] = values
			} else if len(values) == 1 {
				templateSegs[i] = values[0]
			}
		}
	}

	endpoint := &model.Endpoint{
		Method:        g.method,
		TemplatedPath: strings.Join(templateSegs, "/"),
		SampleURL:     g.raw[0].URL,
		Parameters: map[string]map[string][]string{
			model.LocationPath:  pathParams,
			model.LocationQuery: g.queries,
			model.LocationBody:  bodyParameters(g.bodies),
		},
		SampleBodies: g.bodies,
	}

	return endpoint
}

// classifySegment applies the strict int > uuid > param precedence
// across every observed value at a segment position.
func classifySegment(values []string) classify.Kind {
	sawUUID := false
	for _, v := range values {
		switch classify.Value(v) {
		case classify.KindInt:
			return classify.KindInt
		case classify.KindUUID:
			sawUUID = true
		}
	}
	if sawUUID {
		return classify.KindUUID
	}
	return classify.KindString
}

func paramName(index int) string {
	return "param_" + strconv.Itoa(index)
}

// bodyParameters records each sample body's top-level keys and
// string-coerced scalar values, per spec.md §4.1. Nested objects are
// skipped here; they remain available verbatim in SampleBodies.
func bodyParameters(bodies []map[string]interface{}) map[string][]string {
	out := map[string][]string{}
	for _, body := range bodies {
		keys := make([]string, 0, len(body))
		for k := range body {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := body[k]
			switch v.(type) {
			case map[string]interface{}, []interface{}:
				continue
			}
			out[k] = appendCapped(out[k], scalarString(v), maxParamValues)
		}
	}
	return out
}

func scalarString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		encoded, _ := json.Marshal(val)
		return string(encoded)
	}
}
