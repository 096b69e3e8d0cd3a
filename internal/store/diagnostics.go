package store

import "fmt"

type DiagnosticKind string

const (
	DiagReadError             DiagnosticKind = "read_error"
	DiagParseError            DiagnosticKind = "parse_error"
	DiagCustomPathUnavailable DiagnosticKind = "custom_path_unavailable"
)

// Diagnostic records a load that fell back to defaults instead of failing.
type Diagnostic struct {
	Kind DiagnosticKind
	Path string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %v", d.Kind, d.Path, d.Err)
}

func readDiagnostic(path string, err error) *Diagnostic {
	return &Diagnostic{Kind: DiagReadError, Path: path, Err: fmt.Errorf("%w: %w", ErrRead, err)}
}

func parseDiagnostic(path string, err error) *Diagnostic {
	return &Diagnostic{Kind: DiagParseError, Path: path, Err: fmt.Errorf("%w: %w", ErrParse, err)}
}
