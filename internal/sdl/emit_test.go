package sdl

import "io"

// recordingEmitter is a no-op Emitter that records what it was called
// with, for exercising Context's fan-out paths without a real
// target-language backend.
type recordingEmitter struct {
	literalLines []string
	declares     []*Declare
	items        []*Item
	constants    []*Constant
	enums        []*Enum
	entries      []*Entry
	comments     []string
	moduleCalls  int
}

func (e *recordingEmitter) Language() string { return "test" }

func (e *recordingEmitter) HeaderStars(out io.Writer) Status                           { return StatusOK }
func (e *recordingEmitter) HeaderCreated(out io.Writer, runtime string) Status         { return StatusOK }
func (e *recordingEmitter) HeaderFileInfo(out io.Writer, t string, p string) Status     { return StatusOK }

func (e *recordingEmitter) Comment(out io.Writer, text string, lineFlag, startFlag, middleFlag, endFlag bool) Status {
	e.comments = append(e.comments, text)
	return StatusOK
}

func (e *recordingEmitter) Module(out io.Writer, ctx *Context) Status {
	e.moduleCalls++
	return StatusOK
}
func (e *recordingEmitter) ModuleEnd(out io.Writer, ctx *Context) Status { return StatusOK }

func (e *recordingEmitter) Literal(out io.Writer, line string) Status {
	e.literalLines = append(e.literalLines, line)
	return StatusOK
}

func (e *recordingEmitter) Declare(out io.Writer, d *Declare, ctx *Context) Status {
	e.declares = append(e.declares, d)
	return StatusOK
}
func (e *recordingEmitter) Item(out io.Writer, it *Item, ctx *Context) Status {
	e.items = append(e.items, it)
	return StatusOK
}
func (e *recordingEmitter) Constant(out io.Writer, c *Constant, ctx *Context) Status {
	e.constants = append(e.constants, c)
	return StatusOK
}
func (e *recordingEmitter) Enumerate(out io.Writer, en *Enum, ctx *Context) Status {
	e.enums = append(e.enums, en)
	return StatusOK
}
func (e *recordingEmitter) Entry(out io.Writer, en *Entry, ctx *Context) Status {
	e.entries = append(e.entries, en)
	return StatusOK
}

func (e *recordingEmitter) Aggregate(out io.Writer, node interface{}, kind NodeKind, ending bool, depth int, ctx *Context) Status {
	return StatusOK
}
