package sdl

// BeginDeclare allocates a skeletal DECLARE record bound to name and
// sets it as the registry's current-in-construction declaration: spec.md
// §4.4 "begin(name, type, loc) allocates and links a skeletal record".
// DECLARE is silently idempotent (spec.md §4.4 "Duplicate semantics"):
// redeclaring an existing name returns the existing record instead of
// allocating a new one.
func (c *Context) BeginDeclare(name string, underlying TypeID, loc SourceLoc) *Declare {
	if existing := c.Registry.LookupDeclare(name); existing != nil {
		return existing
	}
	d := &Declare{Name: name, Underlying: underlying}
	d.Loc = loc
	c.Registry.allocDeclare(d)
	return d
}

// CompleteDeclare drains the option buffer into d and performs the
// DECLARE completer's semantic work: spec.md §4.4. If d is nil, or d
// was already completed (BeginDeclare hands back the existing record
// when a name is redeclared), the pending options are discarded, d is
// left unchanged and nothing is emitted.
func (c *Context) CompleteDeclare(d *Declare, loc SourceLoc) error {
	if d == nil || d.TypeID != 0 {
		c.Options.Reset()
		return nil
	}
	d.Unsigned = c.Registry.IsUnsigned(d.Underlying)
	for _, opt := range c.Options.Take() {
		switch opt.Kind {
		case OptPrefix:
			d.Prefix = opt.String
		case OptTag:
			d.Tag = opt.String
		case OptSigned:
			d.Unsigned = opt.Value == 0
		}
	}
	d.Size = c.Registry.SizeOf(d.Underlying)
	if d.Tag == "" {
		d.Tag = NormalizeTag(c.Registry.ResolveTag(d.Underlying), d.Name)
	} else {
		d.Tag = NormalizeTag(d.Tag, d.Name)
	}
	d.TypeID = d.ID
	c.emitDeclare(d)
	return nil
}
