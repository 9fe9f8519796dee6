package sdl

import "strings"

// BeginAggregate allocates a skeletal top-level AGGREGATE, registers
// it under the registry's AGGREGATE range, and pushes it as current:
// spec.md §4.4/§3. A nested STRUCTURE/UNION is built by AggregateMember
// called with kind MemberSubaggregate instead.
func (c *Context) BeginAggregate(name string, aggType AggregateType, loc SourceLoc) *Aggregate {
	agg := &Aggregate{Name: name, AggType: aggType}
	agg.Loc = loc
	c.Registry.allocAggregate(agg)
	agg.Type = agg.ID
	c.PushAggregate(agg)
	return agg
}

// drainPending implements spec.md §4.5 step 1 of aggregate_member:
// "First, drain option buffer into the *previous* member (or the
// current aggregate if no member yet)." Call this before appending any
// new member/closing the aggregate, so options written after a member
// attach to that member rather than leaking onto the next one.
func (c *Context) drainPending(loc SourceLoc) {
	agg := c.CurrentAggregate()
	if agg == nil {
		c.Options.Reset()
		return
	}
	opts := c.Options.Take()
	if len(opts) == 0 {
		return
	}
	if len(agg.Members) == 0 {
		c.applyAggregateOptions(agg, opts, loc)
		return
	}
	c.applyMemberOptions(agg.Members[len(agg.Members)-1], opts, loc)
}

func (c *Context) applyAggregateOptions(agg *Aggregate, opts []Option, loc SourceLoc) {
	for _, opt := range opts {
		switch opt.Kind {
		case OptPrefix:
			agg.Prefix = opt.String
		case OptTag:
			agg.Tag = opt.String
		case OptMarker:
			agg.Marker = opt.String
		case OptBased:
			agg.BasedPtrName = opt.String
		case OptOrigin:
			agg.Origin = &Origin{ID: opt.String}
		case OptAlign:
			agg.Alignment = AlignSpec{Kind: AlignNatural}
			agg.AlignmentPresent = true
		case OptNoAlign:
			agg.Alignment = AlignSpec{Kind: AlignNone}
			agg.AlignmentPresent = true
		case OptBaseAlign:
			agg.Alignment = AlignSpec{Kind: AlignExplicit, Value: opt.Value}
			agg.AlignmentPresent = true
		case OptCommon:
			agg.Storage = StorageCommon
		case OptGlobal:
			agg.Storage = StorageGlobal
		case OptFill:
			agg.Fill = true
		case OptDimension:
			if agg.Dimension == nil {
				agg.Dimension = &Dimension{}
			}
			if agg.Dimension.HBound == 0 && agg.Dimension.LBound == 0 {
				agg.Dimension.LBound = opt.Value
			} else {
				agg.Dimension.HBound = opt.Value
			}
		}
	}
}

func (c *Context) applyMemberOptions(m *Member, opts []Option, loc SourceLoc) {
	for _, opt := range opts {
		switch opt.Kind {
		case OptPrefix:
			if m.Item != nil {
				m.Item.Prefix = opt.String
			}
		case OptTag:
			if m.Item != nil {
				m.Item.Tag = opt.String
			}
		case OptAlign:
			if m.Item != nil {
				m.Item.Alignment = AlignSpec{Kind: AlignNatural}
			}
		case OptNoAlign:
			if m.Item != nil {
				m.Item.Alignment = AlignSpec{Kind: AlignNone}
			}
		case OptBaseAlign:
			if m.Item != nil {
				m.Item.Alignment = AlignSpec{Kind: AlignExplicit, Value: opt.Value}
			}
		case OptMask:
			if m.Item != nil {
				m.Item.Mask = true
			}
		case OptDimension:
			dim := m.MemberDimension
			if m.Item != nil {
				if m.Item.Dimension == nil {
					m.Item.Dimension = &Dimension{}
				}
				dim = m.Item.Dimension
			} else if dim == nil {
				dim = &Dimension{}
				m.MemberDimension = dim
			}
			if dim.HBound == 0 && dim.LBound == 0 {
				dim.LBound = opt.Value
			} else {
				dim.HBound = opt.Value
			}
		case OptSubType:
			if m.Item != nil {
				m.Item.IsBitfield = true
			}
		}
	}
}

// AggregateMember is the workhorse described in spec.md §4.4
// "Aggregate member path". kind selects STRUCTURE/UNION (push a
// subaggregate), a scalar item, or a comment. For STRUCTURE/UNION
// members the caller must follow up with EndSubaggregate once its
// members are done; for scalar/comment members the member is complete
// after this call returns.
func (c *Context) AggregateMember(name string, datatype TypeID, kind MemberKind, loc SourceLoc, commentText string, bitLength int64, sizedBitfield bool) *Member {
	c.drainPending(loc)

	agg := c.CurrentAggregate()
	if agg == nil {
		return nil
	}

	var m *Member
	switch kind {
	case MemberComment:
		m = &Member{Kind: MemberComment, CommentText: commentText, Loc: loc, Top: len(agg.Members) == 0}
		c.AppendMember(agg, m)
		return m

	case MemberSubaggregate:
		// datatype doubles as the AggregateType selector here (STRUCTURE
		// vs UNION) since a subaggregate member has no scalar datatype of
		// its own.
		sub := &Aggregate{Name: name, Parent: agg}
		sub.Loc = loc
		if datatype == TypeID(AggUnion) {
			sub.AggType = AggUnion
		}
		sub.Prefix = agg.Prefix
		sub.Marker = agg.Marker
		sub.ParentAlignment = agg.Alignment
		c.Registry.allocAggregate(sub)
		sub.Type = sub.ID
		sub.CurrentOffset = c.endOffset(agg, previousNonComment(agg.Members), agg.AggType == AggUnion)

		m = &Member{Kind: MemberSubaggregate, Subaggregate: sub, Type: sub.Type, Loc: loc, Top: len(agg.Members) == 0}
		sub.Self = m
		c.AppendMember(agg, m)
		c.PushAggregate(sub)
		return m

	default:
		mi := &MemberItem{
			Name: name,
			Type: datatype,
			Size: c.Registry.SizeOf(datatype),
		}
		if datatype == TyDecimal {
			// No option sets Precision or Scale; a DECIMAL member keeps a
			// single digit of precision and a zero scale.
			mi.Precision = 1
		}
		isBitfield := isBitfieldType(datatype)
		if isBitfield {
			mi.IsBitfield = true
			if datatype == TyBitfield {
				mi.Type = TyBitfieldByte
				mi.Size = 1
			}
		}
		if datatype == TyCharVarying {
			mi.Length = 0
		}

		m = &Member{
			Kind:          MemberItem,
			Item:          mi,
			Type:          mi.Type,
			Loc:           loc,
			Top:           len(agg.Members) == 0,
			BitLength:     bitLength,
			SizedBitfield: sizedBitfield,
		}
		c.AppendMember(agg, m)

		if agg.Origin != nil && agg.Origin.MemberRef == nil && agg.Origin.ID == name {
			agg.Origin.MemberRef = m
		}
		return m
	}
}

func isBitfieldType(t TypeID) bool {
	switch t {
	case TyBitfield, TyBitfieldByte, TyBitfieldWord, TyBitfieldLong, TyBitfieldQuad, TyBitfieldOcta:
		return true
	}
	return false
}

// EndSubaggregate completes the innermost (current) subaggregate:
// finalizes its size, applies the first-member alignment adjustment
// described in spec.md §4.5's last paragraph, pops it, and returns
// control to its parent. name must match the subaggregate's own name,
// else ErrMatchEnd (spec.md §7 MATCHEND); an empty subaggregate is
// ErrNullStruct.
func (c *Context) EndSubaggregate(name string, loc SourceLoc) *Diagnostic {
	c.drainPending(loc)
	sub := c.CurrentAggregate()
	if sub == nil || sub.Parent == nil {
		return NewDiagnostic(CodeInvCondState, loc, "END with no open subaggregate")
	}
	if name != "" && !strings.EqualFold(name, sub.Name) {
		return NewDiagnostic(CodeMatchEnd, loc, "END %s does not match %s", name, sub.Name)
	}
	if len(sub.Members) == 0 {
		return NewDiagnostic(CodeNullStruct, loc, "aggregate %s has no members", sub.Name)
	}
	c.FinalizeAggregateSize(sub)
	if first := previousNonComment(sub.Members[:1]); first != nil {
		sub.CurrentOffset = c.applyFirstMemberAlignment(sub, first)
	}
	c.PopAggregate()
	if sub.Origin != nil {
		c.resolveOrigin(sub)
	}
	return nil
}

// applyFirstMemberAlignment implements spec.md §4.5's final paragraph:
// "The first member of a non-top sub-aggregate triggers an alignment
// adjustment of the sub-aggregate's offset using the sub-aggregate's
// own alignment value against the first member's size (or the max-
// member-size in a union)."
func (c *Context) applyFirstMemberAlignment(sub *Aggregate, first *Member) int64 {
	size := memberEffectiveStride(first)
	if sub.AggType == AggUnion {
		for _, m := range sub.Members {
			if s := memberEffectiveStride(m); s > size {
				size = s
			}
		}
	}
	spec := sub.Alignment
	if !sub.AlignmentPresent {
		return sub.CurrentOffset
	}
	switch spec.Kind {
	case AlignNatural:
		if size <= 0 {
			return sub.CurrentOffset
		}
		return padTo(sub.CurrentOffset, size)
	case AlignExplicit:
		if spec.Value <= 0 {
			return sub.CurrentOffset
		}
		return padTo(sub.CurrentOffset, spec.Value)
	}
	return sub.CurrentOffset
}

// resolveOrigin finds the first descendant whose id matches
// agg.Origin.ID, setting MemberRef at most once: spec.md §3 "ORIGIN
// reference".
func (c *Context) resolveOrigin(agg *Aggregate) {
	if agg.Origin == nil || agg.Origin.MemberRef != nil {
		return
	}
	var walk func(*Aggregate) *Member
	walk = func(a *Aggregate) *Member {
		for _, m := range a.Members {
			if m.Kind == MemberItem && m.Item != nil && m.Item.Name == agg.Origin.ID {
				return m
			}
			if m.Kind == MemberSubaggregate {
				if found := walk(m.Subaggregate); found != nil {
					return found
				}
			}
		}
		return nil
	}
	agg.Origin.MemberRef = walk(agg)
}

// EndAggregate completes the top-level aggregate currently under
// construction: spec.md §4.4 "Aggregate completion". It decrements
// depth (popping back to top level), finalizes size, fans out to
// enabled emitters bracketing every member with its depth, and returns
// the closed Aggregate for the derived-constant generator.
func (c *Context) EndAggregate(name string, loc SourceLoc) (*Aggregate, *Diagnostic) {
	c.drainPending(loc)
	agg := c.CurrentAggregate()
	if agg == nil || agg.Parent != nil {
		return nil, NewDiagnostic(CodeInvCondState, loc, "END with no open top-level aggregate")
	}
	if name != "" && !strings.EqualFold(name, agg.Name) {
		return nil, NewDiagnostic(CodeMatchEnd, loc, "END %s does not match %s", name, agg.Name)
	}
	if len(agg.Members) == 0 {
		return nil, NewDiagnostic(CodeNullStruct, loc, "aggregate %s has no members", agg.Name)
	}
	c.FinalizeAggregateSize(agg)
	if agg.Tag == "" {
		agg.Tag = NormalizeTag(aggregateTag, agg.Name)
	} else {
		agg.Tag = NormalizeTag(agg.Tag, agg.Name)
	}
	c.resolveOrigin(agg)
	c.PopAggregate()
	c.emitAggregateTree(agg, 0)
	derived := c.DeriveConstants(agg)
	for _, cn := range derived {
		c.emitConstant(cn)
	}
	return agg, nil
}
