package modeler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pb33f/libopenapi"

	"github.com/surfacerecon/surfacerecon/internal/model"
)

// ExportOpenAPI renders the modeled Endpoint set as an OpenAPI 3.1
// document. This is a supplemental capability (spec.md names only the
// endpoint/id_pool artifact); it exists so a scenario's modeled
// surface can be handed to tooling that already speaks OpenAPI. The
// document is built as YAML text, then parsed and re-serialized
// through libopenapi so the emitted bytes are whatever libopenapi
// considers canonical for the document it just validated.
func ExportOpenAPI(endpoints []*model.Endpoint, title string) ([]byte, error) {
	yamlDoc := buildOpenAPIYAML(endpoints, title)

	doc, err := libopenapi.NewDocument([]byte(yamlDoc))
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}

	if _, err := doc.BuildV3Model(); err != nil {
		return nil, fmt.Errorf("openapi model validation: %w", err)
	}

	rendered, err := doc.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize openapi document: %w", err)
	}

	return rendered, nil
}

func buildOpenAPIYAML(endpoints []*model.Endpoint, title string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "openapi: 3.1.0\n")
	fmt.Fprintf(&b, "info:\n  title: %q\n  version: \"1.0\"\n", title)
	b.WriteString("paths:\n")

	byPath := map[string][]*model.Endpoint{}
	var paths []string
	for _, ep := range endpoints {
		if _, ok := byPath[ep.TemplatedPath]; !ok {
			paths = append(paths, ep.TemplatedPath)
		}
		byPath[ep.TemplatedPath] = append(byPath[ep.TemplatedPath], ep)
	}
	sort.Strings(paths)

	for _, path := range paths {
		fmt.Fprintf(&b, "  %q:\n", openAPIPath(path))
		for _, ep := range byPath[path] {
			fmt.Fprintf(&b, "    %s:\n", strings.ToLower(ep.Method))
			fmt.Fprintf(&b, "      operationId: %s\n", operationID(ep))
			fmt.Fprintf(&b, "      responses:\n")
			fmt.Fprintf(&b, "        \"200\":\n          description: observed response\n")

			params := pathParamNames(path)
			if len(params) > 0 {
				b.WriteString("      parameters:\n")
				for _, p := range params {
					fmt.Fprintf(&b, "        - name: %s\n          in: path\n          required: true\n          schema:\n            type: string\n", p)
				}
			}
		}
	}

	return b.String()
}

// openAPIPath rewrites our {id:int}/{id:uuid}/{param} placeholders
// into OpenAPI's {name} path-parameter syntax.
func openAPIPath(path string) string {
	segs := strings.Split(path, "/")
	n := 0
	for i, s := range segs {
		if s == "{id:int}" || s == "{id:uuid}" || s == "{param}" {
			segs[i] = fmt.Sprintf("{param_%d}", n)
			n++
		}
	}
	return strings.Join(segs, "/")
}

func pathParamNames(path string) []string {
	segs := strings.Split(path, "/")
	n := 0
	var out []string
	for _, s := range segs {
		if s == "{id:int}" || s == "{id:uuid}" || s == "{param}" {
			out = append(out, fmt.Sprintf("param_%d", n))
			n++
		}
	}
	return out
}

func operationID(ep *model.Endpoint) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, ep.TemplatedPath)
	return strings.ToLower(ep.Method) + slug
}
