package validator

import "fmt"

// Severity indicates the severity level of a validation issue.
type Severity int

const (
	// SeverityError indicates a violation that makes the document invalid.
	SeverityError Severity = iota
	// SeverityWarning indicates a best-practice violation that does not make
	// the document invalid.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Issue is a single problem found in a document.
type Issue struct {
	// Path is the dotted path to the problematic value (e.g., "paths./pets.get.responses")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity Severity
	// Field is the specific field name that has the issue
	Field string
	// Value is the problematic value (optional)
	Value any
	// SpecRef is the URL of the relevant section of the specification (optional)
	SpecRef string
}

// String formats the issue with a severity symbol: "✗" for errors and "⚠"
// for warnings.
func (i Issue) String() string {
	symbol := "✗"
	if i.Severity == SeverityWarning {
		symbol = "⚠"
	}
	result := fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
	if i.SpecRef != "" {
		result += "\n    Spec: " + i.SpecRef
	}
	return result
}

type issueOption func(*Issue)

func withField(field string) issueOption {
	return func(i *Issue) { i.Field = field }
}

func withValue(value any) issueOption {
	return func(i *Issue) { i.Value = value }
}
