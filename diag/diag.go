// Package diag provides the structured diagnostic type shared by the lexer,
// parser, validator and decompiler.
package diag

import (
	"fmt"

	"github.com/mcpdsl/mcpdsl/token"
)

// Severity classifies how serious a [Diagnostic] is. Only Error severity
// blocks compilation.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String renders the severity the way it appears in rendered diagnostics,
// e.g. "[ERROR]".
func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is a single structured message produced by any pipeline stage,
// carrying the source range it applies to and an optional machine-readable
// code (e.g. "missing-uri", "unknown-annotation").
type Diagnostic struct {
	Severity Severity
	Message  string
	Range    token.Range
	Code     string
}

// String renders the diagnostic as "[SEVERITY] line:col: message", per
// spec §6.3.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Range.Start, d.Message)
}

// Errorf builds an Error-severity diagnostic at r.
func Errorf(r token.Range, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...), Range: r}
}

// Warningf builds a Warning-severity diagnostic at r.
func Warningf(r token.Range, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...), Range: r}
}

// Infof builds an Info-severity diagnostic at r.
func Infof(r token.Range, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Info, Message: fmt.Sprintf(format, args...), Range: r}
}

// HasErrors reports whether any diagnostic in ds is Error severity. A
// document is valid, per spec §4.4, iff this returns false.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// WithCode returns d with Code set, for chaining at the call site.
func (d Diagnostic) WithCode(code string) Diagnostic {
	d.Code = code
	return d
}
