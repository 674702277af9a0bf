package analyzer

import (
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/vocab"
)

func containsStatus(status int, set ...int) bool {
	for _, s := range set {
		if status == s {
			return true
		}
	}
	return false
}

// diffTouchesSensitiveField reports whether any changed/added/removed
// path in diff contains a sensitive-field token (spec.md §4.5 rule 2).
func diffTouchesSensitiveField(d *Diff) bool {
	if d == nil {
		return false
	}
	for path := range d.Changed {
		if vocab.MatchesAny(path, vocab.SensitiveFields) {
			return true
		}
	}
	for path := range d.Added {
		if vocab.MatchesAny(path, vocab.SensitiveFields) {
			return true
		}
	}
	for path := range d.Removed {
		if vocab.MatchesAny(path, vocab.SensitiveFields) {
			return true
		}
	}
	return false
}

// Severity evaluates the ordered rule cascade of spec.md §4.5. It is a
// pure function of its inputs: same inputs, same severity, every
// time.
func Severity(baselineStatus, testStatus int, diff *Diff, testType string, baselineBodyLen, testBodyLen int, lengthDiffThreshold float64) string {
	switch {
	case containsStatus(baselineStatus, 401, 403, 404) && containsStatus(testStatus, 200, 201, 204):
		return model.SeverityHigh
	case diffTouchesSensitiveField(diff):
		return model.SeverityHigh
	case testType == model.TestTypeIDOR && baselineStatus == 200 && testStatus == 200 && !diff.Empty():
		return model.SeverityHigh
	case containsStatus(baselineStatus, 400, 404) && containsStatus(testStatus, 200, 201, 204):
		return model.SeverityMedium
	case lengthDelta(baselineBodyLen, testBodyLen) > lengthDiffThreshold:
		return model.SeverityMedium
	case baselineStatus == 200 && testStatus == 200 && !diff.Empty():
		return model.SeverityMedium
	case !diff.Empty():
		return model.SeverityLow
	default:
		return model.SeverityLow
	}
}

func lengthDelta(baselineLen, testLen int) float64 {
	if baselineLen == 0 {
		if testLen == 0 {
			return 0
		}
		return 1
	}
	delta := testLen - baselineLen
	if delta < 0 {
		delta = -delta
	}
	return float64(delta) / float64(baselineLen)
}
