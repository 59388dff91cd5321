// Package diagnostic implements the Diagnostic Reporter (spec.md §5, §7): a
// collaborator to the Module and Function Checkers that accumulates error
// records and, at designated barrier points, may escalate to a fatal halt.
// Grounded on PNaClABIErrorReporter (original_source) for the
// accumulate/checkForFatalErrors/reset contract, and on internal/wasm's
// plain-slice, no-locking style since the verifier runs single-threaded
// (spec.md §5).
package diagnostic

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Severity classifies a Diagnostic. The verifier only ever emits Error
// today; Severity exists so a future pass (or a host combining multiple
// passes) can add warnings without changing the Reporter's shape.
type Severity int

const (
	Error Severity = iota
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "unknown"
}

// Diagnostic is one reported record: spec.md §6 requires every record be a
// (severity, message) pair with a stable, human-readable message.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// Reporter accumulates Diagnostics across a module pass followed by zero or
// more function passes, and can be asked at a barrier point whether the
// fatal threshold has been reached. Reporter itself has no notion of
// ownership. The root Verifier always creates a fresh Reporter for each
// Verify call and returns it to the caller; it does not accept a
// caller-supplied Reporter.
type Reporter struct {
	// RunID correlates one verification run's diagnostics, grounded on
	// roach88-nysm's use of uuid for run/trace identification (spec.md
	// DOMAIN STACK). It has no bearing on which diagnostics are produced.
	RunID uuid.UUID

	diagnostics   []Diagnostic
	fatalThreshold int
}

// New returns a Reporter that halts (via CheckFatal) once at least one
// diagnostic has been recorded -- the PNaCl verifier's default behavior.
func New() *Reporter {
	return &Reporter{RunID: uuid.New(), fatalThreshold: 1}
}

// WithFatalThreshold overrides how many diagnostics must accumulate before
// CheckFatal reports halt == true. A threshold of 0 disables the fatal
// check entirely (useful for a host "analysis" command that wants to print
// everything and keep going).
func (r *Reporter) WithFatalThreshold(n int) *Reporter {
	r.fatalThreshold = n
	return r
}

// Add appends one Diagnostic, preserving call order -- spec.md §5 requires
// module-pass diagnostics precede function-pass diagnostics, and within a
// pass, diagnostics appear in visitation order.
func (r *Reporter) Add(format string, args ...interface{}) {
	r.diagnostics = append(r.diagnostics, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Diagnostics returns the accumulated records in report order. The slice is
// owned by the Reporter; callers must not mutate it.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diagnostics
}

// HasDiagnostics reports whether any diagnostic has been recorded since
// construction or the last Reset.
func (r *Reporter) HasDiagnostics() bool {
	return len(r.diagnostics) > 0
}

// CheckFatal is the pass-boundary barrier of spec.md §5/§7: if the fatal
// threshold has been reached, it reports true, by which point the host must
// stop invoking further passes. It never panics or exits itself --
// termination is the host's decision, mirroring how
// checkForFatalErrors delegates to the reporter's exit policy rather than
// calling exit() directly.
func (r *Reporter) CheckFatal() bool {
	if r.fatalThreshold <= 0 {
		return false
	}
	return len(r.diagnostics) >= r.fatalThreshold
}

// Reset clears accumulated diagnostics, used when a host "analysis" command
// re-runs the pass (spec.md §5).
func (r *Reporter) Reset() {
	r.diagnostics = nil
}

// Print writes all accumulated diagnostics to w, one per line. This is a
// convenience for cmd/abiverify; spec.md §1 treats terminal formatting as an
// external collaborator, so callers are free to format diagnostics
// differently.
func (r *Reporter) Print(w io.Writer) {
	for _, d := range r.diagnostics {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d.Message)
	}
}
