package sdl

// BeginModule opens a MODULE, recording its name, optional IDENT
// version string and title, and fans emit_module out to every enabled
// emitter: spec.md §6, with the IDENT clause added per SPEC_FULL.md
// (recovered from original_source/opensdl_actions.c, dropped by the
// distillation).
func (c *Context) BeginModule(name, ident, title string) {
	c.ModuleName = name
	c.ModuleIdent = ident
	c.Title = title
	Fanout(c, c.Emitters, func(t EmitterTarget) Status { return t.Emitter.Module(t.Out, c) })
}

// EndModule closes the MODULE: fans emit_module_end out, then resets
// every module-scoped table per spec.md §3.
func (c *Context) EndModule() {
	Fanout(c, c.Emitters, func(t EmitterTarget) Status { return t.Emitter.ModuleEnd(t.Out, c) })
	c.ModuleEnd()
}
