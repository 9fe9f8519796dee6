package sdl

// DeriveConstants generates the SIZE and MASK constants described in
// spec.md §4.6, after agg's size has been finalized (EndAggregate calls
// this once the top-level aggregate closes). The generated constants
// are appended to Context.Constants, ready for the same emitter fan-out
// that module-scope CONSTANT statements use.
func (c *Context) DeriveConstants(agg *Aggregate) []*Constant {
	var out []*Constant

	sizeTag := "S"
	if isAllLower(agg.Name) {
		sizeTag = "s"
	}
	out = append(out, &Constant{
		Name:  agg.Name,
		Tag:   sizeTag,
		Kind:  ConstantNumeric,
		Value: agg.Size,
		Radix: RadixDecimal,
		Size:  4,
	})

	var walk func(*Aggregate)
	walk = func(a *Aggregate) {
		for _, m := range a.Members {
			switch m.Kind {
			case MemberItem:
				if m.Item != nil && m.Item.IsBitfield {
					out = append(out, &Constant{
						Name:  m.Item.Name,
						Tag:   "S",
						Kind:  ConstantNumeric,
						Value: m.BitLength,
						Radix: RadixDecimal,
						Size:  4,
					})
					if m.Item.Mask {
						mask := ((int64(1) << uint(m.BitLength)) - 1) << uint(m.BitOffset)
						out = append(out, &Constant{
							Name:     m.Item.Name,
							Tag:      "M",
							Kind:     ConstantNumeric,
							Value:    mask,
							Radix:    RadixHex,
							Size:     m.Item.Size,
						})
					}
				}
			case MemberSubaggregate:
				walk(m.Subaggregate)
			}
		}
	}
	walk(agg)

	c.Constants = append(c.Constants, out...)
	return out
}
