// Package analyzer implements the Differential Analyzer (spec.md
// §4.5): for each successful TestResult it locates a baseline
// CapturedRequest, diffs the two responses, and emits a Finding
// carrying a severity and a reproduction command.
package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/surfacerecon/surfacerecon/internal/capture"
	"github.com/surfacerecon/surfacerecon/internal/model"
)

const diffSummaryMaxChars = 500

// baselineIndex maps (url, method) to the first captured request
// observed for that pair, plus each method to the first captured
// request with that method for the coarse fallback lookup (spec.md §4.5, with the
// deterministic tiebreak pinned in spec.md §9: first by input order).
type baselineIndex struct {
	byURLMethod map[string]*capture.Request
	byMethod    map[string]*capture.Request
}

func buildBaselineIndex(requests []capture.Request) *baselineIndex {
	idx := &baselineIndex{
		byURLMethod: map[string]*capture.Request{},
		byMethod:    map[string]*capture.Request{},
	}
	for i := range requests {
		req := &requests[i]
		if req.Response == nil {
			continue
		}
		key := baselineKey(req.URL, req.Method)
		if _, ok := idx.byURLMethod[key]; !ok {
			idx.byURLMethod[key] = req
		}
		if _, ok := idx.byMethod[req.Method]; !ok {
			idx.byMethod[req.Method] = req
		}
	}
	return idx
}

func baselineKey(url, method string) string {
	return method + " " + url
}

// lookup finds the baseline captured request for a test result,
// falling back to the first captured request sharing the test's
// method when there is no exact (url, method) match.
func (idx *baselineIndex) lookup(url, method string) *capture.Request {
	if req, ok := idx.byURLMethod[baselineKey(url, method)]; ok {
		return req
	}
	if req, ok := idx.byMethod[method]; ok {
		return req
	}
	return nil
}

// Analyze produces Findings for every TestResult that has a
// locatable, response-bearing baseline. Results with no baseline
// match are dropped without a finding (spec.md §4.5/§7).
func Analyze(
	requests []capture.Request,
	tests []*model.TestCase,
	results []*model.TestResult,
	lengthDiffThreshold float64,
) []*model.Finding {
	idx := buildBaselineIndex(requests)
	testByID := make(map[string]*model.TestCase, len(tests))
	for _, t := range tests {
		testByID[t.TestID] = t
	}

	var findings []*model.Finding
	n := 0
	for _, result := range results {
		if !result.Success || result.Response == nil {
			continue
		}
		test := testByID[result.TestID]
		if test == nil {
			continue
		}
		baseline := idx.lookup(result.URL, test.Method)
		if baseline == nil || baseline.Response == nil {
			continue
		}

		finding := buildFinding(test, result, baseline, lengthDiffThreshold)
		if finding == nil {
			continue
		}
		n++
		finding.FindingID = "finding_" + strconv.Itoa(n)
		findings = append(findings, finding)
	}

	return findings
}

func buildFinding(test *model.TestCase, result *model.TestResult, baseline *capture.Request, lengthDiffThreshold float64) *model.Finding {
	baselineStatus := baseline.Response.Status
	testStatus := result.Response.Status

	diff, hasDiff := compareBodies(baseline.Response.Body, result.Response.Body)

	if baselineStatus == testStatus && !hasDiff {
		return nil
	}

	severity := Severity(
		baselineStatus, testStatus, diff, test.TestType,
		len(baseline.Response.Body), len(result.Response.Body),
		lengthDiffThreshold,
	)

	return &model.Finding{
		Severity:       severity,
		TestID:         test.TestID,
		TestType:       test.TestType,
		Method:         test.Method,
		URL:            test.URL,
		BaselineStatus: baselineStatus,
		ObservedStatus: testStatus,
		DiffSummary:    truncateDiffSummary(diff),
		ReproCommand:   reproCommand(test, result),
	}
}

// compareBodies implements spec.md §4.5's three-branch comparison: a
// structural JSON diff when both sides parse as JSON, a single
// body-level value-change when they don't but differ as strings, or
// no diff at all.
func compareBodies(baselineBody, testBody string) (*Diff, bool) {
	var baselineJSON, testJSON interface{}
	baselineErr := json.Unmarshal([]byte(baselineBody), &baselineJSON)
	testErr := json.Unmarshal([]byte(testBody), &testJSON)

	if baselineErr == nil && testErr == nil {
		d := JSON(baselineJSON, testJSON)
		return d, !d.Empty()
	}

	if baselineBody != testBody {
		d := newDiff()
		d.Changed[""] = Change{Old: baselineBody, New: testBody}
		return d, true
	}

	return newDiff(), false
}

func truncateDiffSummary(d *Diff) string {
	text := diffText(d)
	if len(text) <= diffSummaryMaxChars {
		return text
	}
	return text[:diffSummaryMaxChars]
}

// diffText renders the diff in a stable order (sorted paths within
// each change set) so findings.json is byte-identical across runs.
func diffText(d *Diff) string {
	if d == nil || d.Empty() {
		return ""
	}
	var parts []string
	for _, path := range sortedPaths(d.Added) {
		parts = append(parts, fmt.Sprintf("+%s=%v", path, d.Added[path]))
	}
	for _, path := range sortedPaths(d.Removed) {
		parts = append(parts, fmt.Sprintf("-%s=%v", path, d.Removed[path]))
	}
	changed := make([]string, 0, len(d.Changed))
	for path := range d.Changed {
		changed = append(changed, path)
	}
	sort.Strings(changed)
	for _, path := range changed {
		c := d.Changed[path]
		parts = append(parts, fmt.Sprintf("~%s: %v -> %v", path, c.Old, c.New))
	}
	return strings.Join(parts, "; ")
}

func sortedPaths(m map[string]interface{}) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// reproCommand synthesizes a shell-form HTTP client invocation for
// the test's method/URL/body plus the observed response headers minus
// content-length and host (spec.md §4.5). It is informational only —
// never executed by this pipeline.
func reproCommand(test *model.TestCase, result *model.TestResult) string {
	var b strings.Builder
	b.WriteString("curl -sS -X ")
	b.WriteString(test.Method)
	b.WriteString(" '")
	b.WriteString(test.URL)
	b.WriteString("'")

	names := make([]string, 0, len(result.Response.Headers))
	for k := range result.Response.Headers {
		if strings.EqualFold(k, "content-length") || strings.EqualFold(k, "host") {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&b, " -H '%s: %s'", k, result.Response.Headers[k])
	}

	if test.Body != nil {
		encoded, err := json.Marshal(test.Body)
		if err == nil {
			fmt.Fprintf(&b, " -d '%s'", string(encoded))
		}
	}

	return b.String()
}
