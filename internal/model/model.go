// Package model holds the pipeline's shared domain types: the records
// that flow between the Endpoint Modeler, ID Inference, Test
// Generator, Replay Engine, and Differential Analyzer stages.
package model

// Endpoint abstracts over all captured requests sharing the same
// method and path shape.
type Endpoint struct {
	Method string `json:"method"`
	// TemplatedPath is the observed path with variable segments
	// replaced by typed placeholders ({id:int}, {id:uuid}, {param}).
	TemplatedPath string `json:"templated_path"`
	// SampleURL is one representative absolute URL observed for this
	// endpoint, scheme and authority included. Test generation
	// concretizes against it rather than against the bare template so
	// the emitted request keeps its original host (spec.md §9).
	SampleURL string `json:"sample_url,omitempty"`
	// Parameters is keyed by location (path, query, body), then by
	// parameter name, yielding the distinct observed values (capped
	// at 10 per parameter).
	Parameters map[string]map[string][]string `json:"parameters"`
	// SampleBodies holds up to 5 structurally distinct JSON request
	// bodies observed for this endpoint.
	SampleBodies []map[string]interface{} `json:"sample_bodies,omitempty"`
	// IDPools is populated by the ID Inference stage.
	IDPools map[string]*IDPool `json:"id_pools,omitempty"`
}

// Location values for Endpoint.Parameters and IDPool.Location.
const (
	LocationPath  = "path"
	LocationQuery = "query"
	LocationBody  = "body"
)

// IDPool is a per-parameter grouping of observed identifier values,
// split into three disjoint buckets, each capped at 20 distinct
// values.
type IDPool struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Integers []string `json:"integers,omitempty"`
	UUIDs    []string `json:"uuids,omitempty"`
	Strings  []string `json:"strings,omitempty"`
}

// InferredType is the first non-empty bucket in precedence order
// (int, uuid, string).
func (p *IDPool) InferredType() string {
	switch {
	case len(p.Integers) > 0:
		return "int"
	case len(p.UUIDs) > 0:
		return "uuid"
	case len(p.Strings) > 0:
		return "string"
	default:
		return ""
	}
}

// Values returns every value across all three buckets, in bucket
// precedence order.
func (p *IDPool) Values() []string {
	out := make([]string, 0, len(p.Integers)+len(p.UUIDs)+len(p.Strings))
	out = append(out, p.Integers...)
	out = append(out, p.UUIDs...)
	out = append(out, p.Strings...)
	return out
}

// TestCase is a planned adversarial request.
type TestCase struct {
	TestID      string                 `json:"test_id"`
	TestType    string                 `json:"test_type"`
	Endpoint    string                 `json:"endpoint"` // originating endpoint's templated path
	Method      string                 `json:"method"`
	URL         string                 `json:"url"`
	Headers     map[string]string      `json:"headers,omitempty"`
	Body        map[string]interface{} `json:"body,omitempty"`
	UseSession  bool                   `json:"use_session"`
	Description string                 `json:"description"`
}

// TestCase type constants (spec.md §3).
const (
	TestTypeIDOR            = "IDOR"
	TestTypeAuthBypass      = "AUTH_BYPASS"
	TestTypeMethodConfusion = "METHOD_CONFUSION"
	TestTypeMassAssignment  = "MASS_ASSIGNMENT"
)

// Response is the response record embedded in a TestResult.
type Response struct {
	Status     int               `json:"status"`
	StatusText string            `json:"status_text"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// TestResult is the outcome of replaying one TestCase.
type TestResult struct {
	TestID    string    `json:"test_id"`
	TestType  string    `json:"test_type"`
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Timestamp string    `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Response  *Response `json:"response,omitempty"`
}

// Finding is the analyzer's verdict on one TestCase.
type Finding struct {
	FindingID      string `json:"finding_id"`
	Severity       string `json:"severity"`
	TestID         string `json:"test_id"`
	TestType       string `json:"test_type"`
	Method         string `json:"method"`
	URL            string `json:"url"`
	BaselineStatus int    `json:"baseline_status"`
	ObservedStatus int    `json:"observed_status"`
	DiffSummary    string `json:"diff_summary"`
	ReproCommand   string `json:"repro_command"`
}

// Severity levels (spec.md §4.5).
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)
