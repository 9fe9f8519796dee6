package sdl

// BeginItem allocates a skeletal ITEM record: spec.md §4.4. Unlike
// DECLARE, ITEM refuses redefinition (spec.md §4.4 "Duplicate
// semantics": "ITEM refuses redefinition (ABORT)") — BeginItem returns
// (nil, diag) if name is already bound, and the caller must not call
// CompleteItem.
func (c *Context) BeginItem(name string, typeID TypeID, loc SourceLoc) (*Item, *Diagnostic) {
	if existing := c.Registry.LookupItem(name); existing != nil {
		return nil, NewDiagnostic(CodeAbort, loc, "item %q already declared", name)
	}
	it := &Item{Name: name, Type: typeID}
	it.Loc = loc
	c.Registry.allocItem(it)
	return it, nil
}

// CompleteItem drains the option buffer into it: spec.md §4.4.
func (c *Context) CompleteItem(it *Item, loc SourceLoc) error {
	if it == nil {
		c.Options.Reset()
		return nil
	}
	it.Size = c.Registry.SizeOf(it.Type)
	it.HBound = -1
	it.LBound = 0
	dims := 0
	for _, opt := range c.Options.Take() {
		switch opt.Kind {
		case OptPrefix:
			it.Prefix = opt.String
		case OptTag:
			it.Tag = opt.String
		case OptCommon:
			it.Storage = StorageCommon
		case OptGlobal:
			it.Storage = StorageGlobal
		case OptTypedef:
			it.Storage = StorageTypedef
		case OptAlign:
			it.Alignment = AlignSpec{Kind: AlignNatural}
		case OptNoAlign:
			it.Alignment = AlignSpec{Kind: AlignNone}
		case OptBaseAlign:
			it.Alignment = AlignSpec{Kind: AlignExplicit, Value: opt.Value}
		case OptDimension:
			if it.Dimension == nil {
				it.Dimension = &Dimension{}
			}
			// First Dimension option carries LBound, second carries HBound;
			// callers append them in that fixed order.
			if dims == 0 {
				it.Dimension.LBound = opt.Value
			} else {
				it.Dimension.HBound = opt.Value
			}
			dims++
		case OptLength:
			it.Length = opt.Value
		case OptSubType:
			it.AddrSubType = TypeID(opt.Value)
			it.HasAddrSub = true
		}
	}
	if it.Type == TyCharVarying {
		it.Size = it.Length + 2
	}
	if it.HasAddrSub && c.Registry.IsAddress(it.Type) {
		if agg := c.Registry.LookupAggregateByID(it.AddrSubType); agg != nil && agg.BasedPtrName == "" {
			c.Diags.Report(NewDiagnostic(CodeAdrObjBas, loc, "aggregate %q used as address sub-type has no BASED pointer name", agg.Name))
		}
	}
	if it.Tag == "" {
		it.Tag = NormalizeTag(c.Registry.ResolveTag(it.Type), it.Name)
	} else {
		it.Tag = NormalizeTag(it.Tag, it.Name)
	}
	it.TypeID = it.ID
	c.emitItem(it)
	return nil
}
