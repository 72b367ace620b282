package parser

import (
	"fmt"

	"github.com/dr8co/t3c/token"
)

// Severity classifies a [Diagnostic].
type Severity int

const (
	SevPedantic Severity = iota
	SevWarning
	SevError
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevPedantic:
		return "pedantic"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevFatal:
		return "fatal"
	default:
		return "?"
	}
}

// Code identifies a diagnostic message, independent of its rendered text,
// so tests and downstream tooling can match on the code rather than a
// formatted string.
type Code string

const (
	CodeExpectedSemi Code = "ExpectedSemi"
	CodeExpectedColon Code = "ExpectedColon"
	CodeExpectedRParen Code = "ExpectedRParen"
	CodeExpectedRBrace Code = "ExpectedRBrace"
	CodeExpectedIdent Code = "ExpectedIdent"
	CodeExpectedFunctionOrObject Code = "ExpectedFunctionOrObject"
	CodeUnexpectedEOF Code = "UnexpectedEOF"
	CodeDuplicateSymbol Code = "DuplicateSymbol"
	CodeCircularClass Code = "CircularClass"
	CodeUnterminatedObject Code = "UnterminatedObject"
	CodeDuplicateProperty Code = "DuplicateProperty"
	CodeUndescribedTemplate Code = "UndescribedTemplate"
	CodeTemplateMismatch Code = "TemplateMismatch"
	CodeBadOperatorArity Code = "BadOperatorArity"
	CodePedanticReimport Code = "PedanticReimport"
	CodeKindMismatch Code = "KindMismatch"
	CodeExpectedPropertysetPattern Code = "ExpectedPropertysetPattern"
)

// Diagnostic is one reported message: a code, severity, source position,
// and the format arguments used to render it.
type Diagnostic struct {
	Pos token.Pos
	Severity Severity
	Code Code
	Args []any
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s %v", d.Pos, d.Severity, d.Code, d.Args)
}

// ErrorSink collects diagnostics and tracks the top-level
// resynchronization-suppression flag: once an ExpectedFunctionOrObject is
// reported, further instances are swallowed until a recognized
// statement-starter is seen.
type ErrorSink struct {
	diags []Diagnostic
	suppressed bool
	fatal bool
}

// NewErrorSink creates an empty ErrorSink.
func NewErrorSink() *ErrorSink { return &ErrorSink{} }

// Report records a non-fatal diagnostic, honoring top-level suppression for
// CodeExpectedFunctionOrObject.
func (s *ErrorSink) Report(pos token.Pos, sev Severity, code Code, args ...any) {
	if code == CodeExpectedFunctionOrObject {
		if s.suppressed {
			return
		}
		s.suppressed = true
	}
	s.diags = append(s.diags, Diagnostic{Pos: pos, Severity: sev, Code: code, Args: args})
}

// ReleaseSuppression clears the resynchronization-suppression flag; called
// when the top-level dispatcher recognizes a statement-starter again.
func (s *ErrorSink) ReleaseSuppression() { s.suppressed = false }

// Fatal records a fatal diagnostic and sets the abort sentinel the parser's
// recursive-descent functions test after every recursive call.
func (s *ErrorSink) Fatal(pos token.Pos, code Code, args ...any) {
	s.diags = append(s.diags, Diagnostic{Pos: pos, Severity: SevFatal, Code: code, Args: args})
	s.fatal = true
}

// IsFatal reports whether a fatal error has been recorded.
func (s *ErrorSink) IsFatal() bool { return s.fatal }

// Diagnostics returns every recorded diagnostic, in report order.
func (s *ErrorSink) Diagnostics() []Diagnostic { return s.diags }

// HasErrors reports whether any non-warning diagnostic was recorded: the
// driver exits with nonzero status if any error (non-warning) was reported.
func (s *ErrorSink) HasErrors() bool {
	for _, d:= range s.diags {
		if d.Severity == SevError || d.Severity == SevFatal {
			return true
		}
	}
	return false
}
