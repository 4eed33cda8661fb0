package safety

import (
	"fmt"

	"github.com/jkcclemens/bins/internal/bin"
	"github.com/jkcclemens/bins/internal/classify"
	"github.com/jkcclemens/bins/internal/units"
)

// Reason identifies the kind of safety violation.
type Reason string

const (
	// SizeExceeded means the file is larger than the configured limit.
	SizeExceeded Reason = "size exceeded"
	// PatternDisallowed means the filename matched a disallowed pattern.
	PatternDisallowed Reason = "pattern disallowed"
	// TypeDisallowed means the content classified as a disallowed type.
	TypeDisallowed Reason = "type disallowed"
)

// Violation records one failed check for one file.
type Violation struct {
	File   string
	Reason Reason
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.File, v.Reason, v.Detail)
}

// Verdict is the gate's decision for a whole request.
type Verdict struct {
	// Allowed reports whether the upload may proceed. With force set it
	// is true even when violations were found.
	Allowed bool

	// TypeChecked reports whether content classification actually ran.
	// False means the type check was skipped (no classifier available),
	// not that it passed.
	TypeChecked bool

	// Violations lists every failed check, in file order then check order.
	Violations []Violation
}

// GateOptions configures a Gate.
type GateOptions struct {
	// SizeLimit is the maximum file size in bytes. Zero means unlimited.
	SizeLimit int64

	// Patterns are the disallowed filename patterns. May be nil.
	Patterns *PatternSet

	// Types are the disallowed classification labels.
	Types []string

	// Classifier detects content types. Nil disables type checking
	// entirely; the verdict records the check as skipped.
	Classifier classify.Classifier
}

// Gate decides per request whether content may leave the machine.
type Gate struct {
	sizeLimit  int64
	patterns   *PatternSet
	types      map[string]struct{}
	classifier classify.Classifier
}

// NewGate creates a gate from the immutable process configuration.
func NewGate(opts GateOptions) *Gate {
	g := &Gate{
		sizeLimit:  opts.SizeLimit,
		patterns:   opts.Patterns,
		classifier: opts.Classifier,
	}
	if len(opts.Types) > 0 {
		g.types = make(map[string]struct{}, len(opts.Types))
		for _, t := range opts.Types {
			g.types[t] = struct{}{}
		}
	}
	return g
}

// typeChecking reports whether the type check step is active.
func (g *Gate) typeChecking() bool {
	return g.classifier != nil && len(g.types) > 0
}

// Check evaluates every file and returns the aggregate verdict. Checks
// run size, pattern, then type per file; all files are evaluated so the
// user sees every problem at once. Stream content (stdin, --message) is
// exempt from all checks.
func (g *Gate) Check(files []bin.UploadFile, force bool) Verdict {
	verdict := Verdict{TypeChecked: g.typeChecking()}

	for _, f := range files {
		if f.FromStream {
			continue
		}
		verdict.Violations = append(verdict.Violations, g.checkFile(f)...)
	}

	verdict.Allowed = force || len(verdict.Violations) == 0
	return verdict
}

func (g *Gate) checkFile(f bin.UploadFile) []Violation {
	var violations []Violation

	if g.sizeLimit > 0 {
		if size := int64(len(f.Content)); size > g.sizeLimit {
			violations = append(violations, Violation{
				File:   f.Name,
				Reason: SizeExceeded,
				Detail: fmt.Sprintf("%s is over the %s limit", units.FormatSize(size), units.FormatSize(g.sizeLimit)),
			})
		}
	}

	if g.patterns != nil {
		if pattern, ok := g.patterns.Match(f.Name); ok {
			violations = append(violations, Violation{
				File:   f.Name,
				Reason: PatternDisallowed,
				Detail: fmt.Sprintf("matches %q", pattern),
			})
		}
	}

	if g.typeChecking() {
		label := g.classifier.Classify(f.Content)
		if _, ok := g.types[label]; ok {
			violations = append(violations, Violation{
				File:   f.Name,
				Reason: TypeDisallowed,
				Detail: label,
			})
		}
	}

	return violations
}
