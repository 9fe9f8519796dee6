package sdl

// sizeClassOrder is the byte→word→long→quad→octa widening ladder used by
// both the first-bitfield-in-a-run widening check and the
// widening-walk: spec.md §4.5.
var sizeClassOrder = []TypeID{TyBitfieldByte, TyBitfieldWord, TyBitfieldLong, TyBitfieldQuad, TyBitfieldOcta}

func nextSizeClass(t TypeID) (TypeID, bool) {
	for i, s := range sizeClassOrder {
		if s == t && i+1 < len(sizeClassOrder) {
			return sizeClassOrder[i+1], true
		}
	}
	return t, false
}

func sizeClassBytes(t TypeID) int64 {
	switch t {
	case TyBitfieldByte:
		return 1
	case TyBitfieldWord:
		return 2
	case TyBitfieldLong:
		return 4
	case TyBitfieldQuad:
		return 8
	case TyBitfieldOcta:
		return 16
	}
	return 1
}

// previousNonComment walks backward over COMMENT members to find the
// effective predecessor: spec.md §4.5 step 1.
func previousNonComment(members []*Member) *Member {
	for i := len(members) - 1; i >= 0; i-- {
		if members[i].Kind != MemberComment {
			return members[i]
		}
	}
	return nil
}

// AppendMember computes m's Offset/BitOffset (and inserts filler
// members as needed) and links it into agg.Members: spec.md §4.5 "Per-
// member offset rule". m.Top must already be set by the caller
// (aggregate_member) before calling this.
func (c *Context) AppendMember(agg *Aggregate, m *Member) {
	if m.Kind == MemberComment {
		agg.Members = append(agg.Members, m)
		return
	}

	p := previousNonComment(agg.Members)
	parentIsUnion := agg.AggType == AggUnion
	isBitfield := m.Kind == MemberItem && m.Item != nil && m.Item.IsBitfield
	pIsBitfield := p != nil && p.Kind == MemberItem && p.Item != nil && p.Item.IsBitfield

	switch {
	case isBitfield && (p == nil || !pIsBitfield):
		m.BitOffset = 0
		m.Offset = c.firstOrNextOffset(agg, p)
		if m.SizedBitfield {
			c.maybeWidenSingle(m)
		}

	case isBitfield && pIsBitfield:
		c.widenRunIfNeeded(agg, m)
		container := sizeClassBytes(m.Item.Type)
		availBits := sizeClassBytes(p.Item.Type)*8 - p.BitOffset - p.BitLength
		if container == sizeClassBytes(p.Item.Type) && m.BitLength <= availBits {
			m.BitOffset = p.BitOffset + p.BitLength
			m.Offset = p.Offset
		} else {
			m.BitOffset = 0
			m.Offset = p.Offset + sizeClassBytes(p.Item.Type)
			if availBits > 0 && !parentIsUnion {
				agg.Members = append(agg.Members, c.fillerBitfield(p, availBits))
			}
		}

	case !isBitfield && pIsBitfield:
		availBits := sizeClassBytes(p.Item.Type)*8 - p.BitOffset - p.BitLength
		if availBits > 0 && !parentIsUnion {
			agg.Members = append(agg.Members, c.fillerBitfield(p, availBits))
		}
		m.Offset = c.endOffset(agg, p, parentIsUnion)

	default:
		m.Offset = c.endOffset(agg, p, parentIsUnion)
	}

	if m.Kind == MemberItem && m.Item != nil && !isBitfield {
		m.Offset = c.applyAlignment(agg, m)
	}

	agg.Members = append(agg.Members, m)
}

// firstOrNextOffset returns the offset the first bit-field of a new
// container starts at: the end-offset of the true predecessor p, or 0
// for the first member of a top-level aggregate, or the enclosing
// aggregate's own current offset for the first member of a nested
// aggregate (spec.md §4.5 step 3a).
func (c *Context) firstOrNextOffset(agg *Aggregate, p *Member) int64 {
	if p != nil {
		return c.endOffset(agg, p, agg.AggType == AggUnion)
	}
	if agg.Parent != nil {
		return agg.CurrentOffset
	}
	return 0
}

// endOffset computes the byte offset immediately after member p, per
// spec.md §4.5 "End-offset computation". In a UNION every member's
// offset equals the aggregate's own offset (effective stride 0).
func (c *Context) endOffset(agg *Aggregate, p *Member, parentIsUnion bool) int64 {
	if p == nil {
		if agg.Parent != nil {
			return agg.CurrentOffset
		}
		return 0
	}
	if parentIsUnion {
		return p.Offset
	}
	switch p.Kind {
	case MemberItem:
		return p.Offset + p.Item.EffectiveStride()
	case MemberSubaggregate:
		return p.Offset + p.Subaggregate.Size
	}
	return p.Offset
}

// maybeWidenSingle applies spec.md §4.5 step 3a's widening check to a
// bit-field whose container was explicitly sized by the user: if its
// length exceeds the container's bit width, widen to the next size
// class.
func (c *Context) maybeWidenSingle(m *Member) {
	for m.BitLength > sizeClassBytes(m.Item.Type)*8 {
		next, ok := nextSizeClass(m.Item.Type)
		if !ok {
			return
		}
		m.Item.Type = next
		m.Item.Size = sizeClassBytes(next)
		m.Type = next
	}
}

// widenRunIfNeeded implements the bit-field widening walk: spec.md
// §4.5 "starting from prev(m) and scanning backward across contiguous
// unsized bit-fields, accumulate total bit length; if the running
// total exceeds the current type's container, widen every member in
// that run to the next size class (and widen m too). Members that the
// user explicitly sized ... are not visited — they terminate the walk."
func (c *Context) widenRunIfNeeded(agg *Aggregate, m *Member) {
	if m.SizedBitfield {
		return
	}
	var run []*Member
	total := m.BitLength
	for i := len(agg.Members) - 1; i >= 0; i-- {
		cand := agg.Members[i]
		if cand.Kind != MemberItem || cand.Item == nil || !cand.Item.IsBitfield {
			break
		}
		if cand.SizedBitfield {
			break
		}
		run = append(run, cand)
		total += cand.BitLength
	}
	if len(run) == 0 {
		return
	}
	container := sizeClassBytes(run[len(run)-1].Item.Type)
	if total <= container*8 {
		return
	}
	next, ok := nextSizeClass(run[0].Item.Type)
	if !ok {
		return
	}
	for _, cand := range run {
		cand.Item.Type = next
		cand.Item.Size = sizeClassBytes(next)
		cand.Type = next
	}
	m.Item.Type = next
	m.Item.Size = sizeClassBytes(next)
	m.Type = next
}

// fillerBitfield synthesizes a filler member spanning availBits in the
// same container as predecessor p: spec.md §4.5 steps 3b/4.
func (c *Context) fillerBitfield(p *Member, availBits int64) *Member {
	name := c.NextFillerName()
	mi := &MemberItem{
		Name:       name,
		Type:       p.Item.Type,
		Size:       p.Item.Size,
		IsBitfield: true,
	}
	return &Member{
		Kind:          MemberItem,
		Item:          mi,
		Type:          p.Item.Type,
		Offset:        p.Offset,
		BitOffset:     p.BitOffset + p.BitLength,
		BitLength:     availBits,
		SizedBitfield: true,
		Filler:        true,
	}
}

// applyAlignment pads a scalar item's offset per spec.md §4.5 step 6.
func (c *Context) applyAlignment(agg *Aggregate, m *Member) int64 {
	spec := m.Item.Alignment
	if spec.Kind == AlignInherit {
		spec = agg.ParentAlignment
	}
	switch spec.Kind {
	case AlignNone, AlignInherit:
		return m.Offset
	case AlignNatural:
		if m.Item.Size <= 0 {
			return m.Offset
		}
		return padTo(m.Offset, m.Item.Size)
	case AlignExplicit:
		if spec.Value <= 0 {
			return m.Offset
		}
		return padTo(m.Offset, spec.Value)
	}
	return m.Offset
}

func padTo(offset, align int64) int64 {
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}

// FinalizeAggregateSize computes agg.Size after all members have been
// appended: spec.md §4.5 "Aggregate size". It must be called exactly
// once, when the aggregate closes (AggregateDepth returns to the depth
// it was entered at).
func (c *Context) FinalizeAggregateSize(agg *Aggregate) {
	if len(agg.Members) == 0 {
		agg.Size = 0
		return
	}
	last := previousNonComment(agg.Members)
	if last == nil {
		agg.Size = 0
		return
	}

	if agg.AggType == AggStruct {
		if last.Kind == MemberItem && last.Item != nil && last.Item.IsBitfield {
			availBits := sizeClassBytes(last.Item.Type)*8 - last.BitOffset - last.BitLength
			if availBits > 0 {
				filler := c.fillerBitfield(last, availBits)
				agg.Members = append(agg.Members, filler)
				last = filler
			}
		}
		agg.Size = last.Offset + memberEffectiveStride(last)
		return
	}

	// UNION: size is the max effective stride across members.
	var maxStride int64
	for _, mem := range agg.Members {
		if mem.Kind == MemberComment {
			continue
		}
		s := memberEffectiveStride(mem)
		if s > maxStride {
			maxStride = s
		}
	}
	agg.Size = maxStride

	// Implicit union (scalar-typed aggregate): pad up to the base
	// type's size with a filler of that exact type and size.
	if agg.Type != 0 && kindOf(normalizeSign(agg.Type)) == KindBase {
		baseSize := c.Registry.SizeOf(agg.Type)
		if baseSize > agg.Size {
			agg.Members = append(agg.Members, &Member{
				Kind: MemberItem,
				Item: &MemberItem{Name: c.NextFillerName(), Type: agg.Type, Size: baseSize},
				Type: agg.Type,
				Filler: true,
			})
			agg.Size = baseSize
		}
	}
}

func memberEffectiveStride(m *Member) int64 {
	switch m.Kind {
	case MemberItem:
		if m.Item.IsBitfield {
			return sizeClassBytes(m.Item.Type)
		}
		return m.Item.EffectiveStride()
	case MemberSubaggregate:
		return m.Subaggregate.Size
	}
	return 0
}
