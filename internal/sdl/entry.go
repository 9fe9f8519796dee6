package sdl

// BeginEntry allocates a skeletal ENTRY record and returns it; the
// caller passes it to AddParameter for each parameter and then to
// CompleteEntry: spec.md §4.4/§3.
func (c *Context) BeginEntry(name string, loc SourceLoc) *Entry {
	e := &Entry{Name: name}
	e.Loc = loc
	return e
}

// AddParameter appends a parameter to e, draining whatever options are
// pending for it (IN/OUT/OPTIONAL/LIST/DIMENSION/Default): the ENTRY
// equivalent of aggregate_member's "drain into the previous thing"
// mechanism, except ENTRY has no nested construct so every parameter
// is complete as soon as its own options (if any were buffered between
// parameters) are drained.
func (c *Context) AddParameter(e *Entry, name string, typeID TypeID, passing PassingMechanism, loc SourceLoc) *Parameter {
	p := &Parameter{Name: name, Type: typeID, Passing: passing}
	for _, opt := range c.Options.Take() {
		switch opt.Kind {
		case OptIn:
			p.In = true
		case OptOut:
			p.Out = true
		case OptOptional:
			p.Optional = true
		case OptList:
			p.List = true
		case OptDimension:
			if p.Dimension == nil {
				p.Dimension = &Dimension{}
			}
			if p.Dimension.HBound == 0 && p.Dimension.LBound == 0 {
				p.Dimension.LBound = opt.Value
			} else {
				p.Dimension.HBound = opt.Value
			}
		case OptDefault:
			p.Default = true
			p.DefaultValue = opt.Value
		case OptTypeName:
			p.TypeName = opt.String
		}
	}
	if !p.In && !p.Out {
		p.In = true
	}
	e.Parameters = append(e.Parameters, p)
	return p
}

// CompleteEntry drains the option buffer into e (ALIAS, LINKAGE,
// VARIABLE, RETURNS) and links it into the context's entry list: spec.md
// §4.4.
func (c *Context) CompleteEntry(e *Entry, loc SourceLoc) error {
	if e == nil {
		c.Options.Reset()
		return nil
	}
	var returnsType TypeID
	var returnsSeen bool
	var returnsName string
	for _, opt := range c.Options.Take() {
		switch opt.Kind {
		case OptAlias:
			e.Alias = opt.String
		case OptLinkage:
			e.Linkage = opt.String
		case OptVariable:
			e.Variable = true
		case OptReturnsType:
			returnsType = TypeID(opt.Value)
			returnsSeen = true
		case OptReturnsNamed:
			returnsName = opt.String
		case OptTypeName:
			e.TypeName = opt.String
		}
	}
	if returnsSeen {
		e.Returns = &EntryReturn{
			Type:     returnsType,
			Unsigned: c.Registry.IsUnsigned(returnsType),
			Name:     returnsName,
		}
	}
	c.Entries = append(c.Entries, e)
	c.emitEntry(e)
	return nil
}
