package sdl

// LiteralBlock accumulates the lines between LITERAL and END_LITERAL:
// spec.md §6 "emit_literal(out, line) for a LITERAL/END_LITERAL block
// (each inner line)". The block is copied verbatim to every enabled
// emitter, with no lexical interpretation of its contents — named in
// the original opensdl_actions.c but dropped from the distilled spec
// (see SPEC_FULL.md "Declaration Builders").
type LiteralBlock struct {
	Lines []string
}

// AddLine appends one line of literal text.
func (lb *LiteralBlock) AddLine(line string) {
	lb.Lines = append(lb.Lines, line)
}
