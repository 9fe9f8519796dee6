package sdl

import (
	"fmt"

	"github.com/golang/glog"
	"go.uber.org/multierr"
)

// Severity classifies a Diagnostic the way spec.md §7 splits error
// kinds into soft (continue within the module) and fatal (abort the
// run).
type Severity int

const (
	SevNormal Severity = iota
	SevSoft
	SevFatal
)

// Code enumerates every error kind named in spec.md §7.
type Code string

const (
	CodeNormal     Code = "NORMAL"
	CodeCreated    Code = "CREATED"
	CodeNotCreated Code = "NOTCREATED"
	CodeErrExit    Code = "ERREXIT"

	CodeSyntaxErr Code = "SYNTAXERR"

	CodeMatchEnd    Code = "MATCHEND"
	CodeNullStruct  Code = "NULLSTRUCT"
	CodeInvAggrName Code = "INVAGGRNAM"

	CodeInvCondState Code = "INVCONDST"
	CodeSymNotDef    Code = "SYMNOTDEF"

	CodeAdrObjBas Code = "ADROBJBAS"
	CodeInvUnkLen Code = "INVUNKLEN"
	CodeZeroLen   Code = "ZEROLEN"

	CodeDupLang     Code = "DUPLANG"
	CodeDupListQual Code = "DUPLISTQUAL"
	CodeInvQual     Code = "INVQUAL"
	CodeInvAlign    Code = "INVALIGN"
	CodeSymAlrDef   Code = "SYMALRDEF"

	CodeInFilOpn  Code = "INFILOPN"
	CodeOutFilOpn Code = "OUTFILOPN"
	CodeNoCopyFil Code = "NOCOPYFIL"
	CodeNoOutput  Code = "NOOUTPUT"
	CodeNoInpFil  Code = "NOINPFIL"
	CodeAbort     Code = "ABORT"
)

// fatalCodes are escalated to SevFatal regardless of how the caller
// constructs the Diagnostic: I/O failures and OOM abort the run per
// spec.md §7 "Propagation policy".
var fatalCodes = map[Code]bool{
	CodeInFilOpn: true, CodeOutFilOpn: true, CodeNoCopyFil: true,
	CodeNoOutput: true, CodeNoInpFil: true, CodeAbort: true,
}

// Diagnostic is one reported error, with enough context for the
// listing reporter to place it near the offending source line.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Loc      SourceLoc
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (line %d)", d.Code, d.Message, d.Loc.Line)
}

// NewDiagnostic builds a Diagnostic, computing its severity from Code.
func NewDiagnostic(code Code, loc SourceLoc, format string, args ...interface{}) *Diagnostic {
	sev := SevSoft
	if fatalCodes[code] {
		sev = SevFatal
	}
	return &Diagnostic{Code: code, Severity: sev, Message: fmt.Sprintf(format, args...), Loc: loc}
}

// Diagnostics is the context's message vector: spec.md §7 "on non-
// normal it emits to the message vector". Soft diagnostics accumulate
// via multierr so every one of them is visible to the caller at the
// end of a run, the way build/sdk/meta's ProductBundleContainer
// validation accumulates multierr.Append across a whole document
// instead of stopping at the first problem.
type Diagnostics struct {
	err error
}

// Report records a diagnostic. Every diagnostic, soft or fatal, is
// folded into the accumulated error and logged at warning level so a
// listing/trace consumer sees it as it happens, not only at the end;
// Report itself never stops the run, whatever the severity.
func (d *Diagnostics) Report(diag *Diagnostic) {
	if diag == nil {
		return
	}
	glog.Warningf("%s", diag.Error())
	d.err = multierr.Append(d.err, diag)
}

// Err returns the accumulated soft-error set, or nil if none occurred.
func (d *Diagnostics) Err() error { return d.err }

// Errors returns the individual diagnostics accumulated so far.
func (d *Diagnostics) Errors() []error { return multierr.Errors(d.err) }

// Reset clears the accumulated diagnostics, used at MODULE end per
// spec.md §3 "After module_end ... module-scoped state is reset".
func (d *Diagnostics) Reset() { d.err = nil }

// Sentinel errors for conditions that are raised deep inside a
// component (CondMachine, Registry) with no SourceLoc at hand; the
// builder that receives one wraps it into a located Diagnostic via
// NewDiagnostic before calling Diagnostics.Report.
var (
	ErrInvCondState = NewDiagnostic(CodeInvCondState, SourceLoc{}, "invalid conditional-state transition")
	ErrSymNotDef    = NewDiagnostic(CodeSymNotDef, SourceLoc{}, "conditional symbol not predefined")
)
