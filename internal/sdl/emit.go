package sdl

import "io"

// NodeKind selects which shape of node emit_aggregate is being called
// with: spec.md §6.
type NodeKind int

const (
	NodeAggregate NodeKind = iota
	NodeSubaggregate
	NodeItem
	NodeComment
)

// Status is an emitter callback's return value: spec.md §6 "Each
// callback returns a status code: normal, abort (fatal), or matchend /
// nullstruct / adrobjbas (specific semantic errors) — propagated up."
type Status struct {
	Code Code
}

// StatusOK is the normal, non-error callback result.
var StatusOK = Status{Code: CodeNormal}

// IsError reports whether s represents anything other than a normal
// return.
func (s Status) IsError() bool { return s.Code != CodeNormal && s.Code != CodeCreated }

// Emitter is the per-output-language callback set: spec.md §6. The
// core keeps a []EmitterTarget (one per currently-configured output
// language) and fans every event out to each entry whose language is
// enabled by the conditional machine, per the Design Notes
// ("the per-language vector of function pointers is a trait/interface
// with one method per emission event").
type Emitter interface {
	Language() string

	HeaderStars(out io.Writer) Status
	HeaderCreated(out io.Writer, runtime string) Status
	HeaderFileInfo(out io.Writer, inputTime string, inputPath string) Status

	Comment(out io.Writer, text string, lineFlag, startFlag, middleFlag, endFlag bool) Status

	Module(out io.Writer, ctx *Context) Status
	ModuleEnd(out io.Writer, ctx *Context) Status

	Literal(out io.Writer, line string) Status

	Declare(out io.Writer, d *Declare, ctx *Context) Status
	Item(out io.Writer, it *Item, ctx *Context) Status
	Constant(out io.Writer, c *Constant, ctx *Context) Status
	Enumerate(out io.Writer, e *Enum, ctx *Context) Status
	Entry(out io.Writer, e *Entry, ctx *Context) Status

	// Aggregate is called once with ending=false at the opening of each
	// aggregate/subaggregate, recursively for its members, and once
	// with ending=true at the close: spec.md §6.
	Aggregate(out io.Writer, node interface{}, kind NodeKind, ending bool, depth int, ctx *Context) Status
}

// EmitterTarget pairs an Emitter with the io.Writer its output goes to
// and the language's index in Context.Languages/Cond.LangEnabled.
type EmitterTarget struct {
	Emitter Emitter
	Out     io.Writer
	Index   int
}

// Fanout dispatches to every enabled emitter, stopping at the first
// fatal Status (mirroring the legacy "propagate a non-normal status
// up" policy) but otherwise invoking all of them so soft emitter
// errors from one language don't suppress another's output.
func Fanout(ctx *Context, targets []EmitterTarget, call func(EmitterTarget) Status) (Status, error) {
	for _, t := range targets {
		if !ctx.LanguageEnabled(t.Index) {
			continue
		}
		st := call(t)
		if st.IsError() {
			diag := NewDiagnostic(st.Code, SourceLoc{}, "emitter %q returned non-normal status", t.Emitter.Language())
			ctx.Diags.Report(diag)
			if fatalCodes[st.Code] || st.Code == CodeAbort {
				return st, diag
			}
		}
	}
	return StatusOK, nil
}
