// Package listing implements the minimal listing/trace reporter named
// in spec.md: an annotated echo of the source alongside any
// diagnostics raised against it, grounded on the original
// opensdl_listing.c line-buffering approach (the distillation dropped
// it; see SPEC_FULL.md "Listing/Trace Reporter").
package listing

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/open-sdl/sdlc/internal/sdl"
)

// Reporter accumulates source lines and the diagnostics raised against
// them, flushing an interleaved listing on demand.
type Reporter struct {
	lines []string
	notes map[int][]*sdl.Diagnostic
}

// New returns an empty Reporter.
func New() *Reporter {
	return &Reporter{notes: make(map[int][]*sdl.Diagnostic)}
}

// LoadSource splits src into lines for later annotation.
func (r *Reporter) LoadSource(src []byte) {
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		r.lines = append(r.lines, sc.Text())
	}
}

// Annotate records a diagnostic against the source line it references,
// so Flush can print it directly beneath that line.
func (r *Reporter) Annotate(d *sdl.Diagnostic) {
	if d == nil {
		return
	}
	r.notes[d.Loc.Line] = append(r.notes[d.Loc.Line], d)
}

// Flush writes the interleaved source+diagnostics listing to out.
func (r *Reporter) Flush(out io.Writer) {
	for i, line := range r.lines {
		lineNo := i + 1
		fmt.Fprintf(out, "%6d  %s\n", lineNo, line)
		for _, d := range r.notes[lineNo] {
			fmt.Fprintf(out, "%%SDL-%s-%s, %s\n", severityLabel(d.Severity), d.Code, d.Message)
		}
	}
}

func severityLabel(s sdl.Severity) string {
	switch s {
	case sdl.SevFatal:
		return "F"
	case sdl.SevSoft:
		return "W"
	default:
		return "I"
	}
}
