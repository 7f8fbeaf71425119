// Package validate implements the multi-stage dataset validation pipeline:
// structure, descriptor, consistency, and quality checks feeding a
// statistics aggregation, recommendation generation, and report assembly.
package validate

import "fmt"

// Severity classifies a Finding.
type Severity string

const (
	SeverityError          Severity = "error"
	SeverityWarning        Severity = "warning"
	SeverityRecommendation Severity = "recommendation"
)

// Finding is one reportable observation from a validation stage.
// Findings are immutable once created; stages only ever append them.
type Finding struct {
	Severity Severity
	Message  string
}

// Errorf creates an error Finding.
func Errorf(format string, args ...interface{}) Finding {
	return Finding{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warnf creates a warning Finding.
func Warnf(format string, args ...interface{}) Finding {
	return Finding{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Recommendf creates a recommendation Finding.
func Recommendf(format string, args ...interface{}) Finding {
	return Finding{Severity: SeverityRecommendation, Message: fmt.Sprintf(format, args...)}
}

// messages extracts the messages of findings matching a severity,
// preserving insertion order.
func messages(findings []Finding, sev Severity) []string {
	out := []string{}
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f.Message)
		}
	}
	return out
}
