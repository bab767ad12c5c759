package catalog

import (
	"fmt"
	"strings"
)

// StructuralKind classifies why a candidate document was rejected.
type StructuralKind int

const (
	// NotObject: the document root is not an object.
	NotObject StructuralKind = iota
	// MissingKey: one of the four top-level keys is absent.
	MissingKey
	// WrongType: a top-level key holds the wrong JSON kind.
	WrongType
	// Malformed: the top level is sound but nested data could not be decoded.
	Malformed
)

func (k StructuralKind) String() string {
	switch k {
	case NotObject:
		return "not-object"
	case MissingKey:
		return "missing-key"
	case WrongType:
		return "wrong-type"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ParseError reports raw bytes that are not a well-formed JSON document.
type ParseError struct {
	Line    int // 1-indexed, 0 when unknown
	Column  int // 1-indexed, 0 when unknown
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse catalog: %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return "parse catalog: " + e.Message
}

// StructuralError reports a well-formed document that is not a catalog.
type StructuralError struct {
	Kind StructuralKind
	Key  string // top-level key involved, empty for NotObject
	Want string // expected JSON kind for WrongType/NotObject
	Got  string // observed JSON kind
	Err  error  // decode failure for Malformed
}

func (e *StructuralError) Error() string {
	switch e.Kind {
	case NotObject:
		return fmt.Sprintf("invalid catalog: document must be an object, got %s", e.Got)
	case MissingKey:
		return fmt.Sprintf("invalid catalog: missing required section %q", e.Key)
	case WrongType:
		return fmt.Sprintf("invalid catalog: section %q must be %s, got %s", e.Key, e.Want, e.Got)
	case Malformed:
		return fmt.Sprintf("invalid catalog: malformed nested data: %v", e.Err)
	default:
		return "invalid catalog"
	}
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Issue is a single deep-validation finding.
type Issue struct {
	Path    string // JSONPath of the offending node
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// DeepError aggregates deep-validation issues.
type DeepError struct {
	Issues []Issue
}

func (e *DeepError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid catalog: " + e.Issues[0].String()
	}
	lines := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		lines[i] = "  " + is.String()
	}
	return fmt.Sprintf("invalid catalog: %d issues:\n%s", len(e.Issues), strings.Join(lines, "\n"))
}
