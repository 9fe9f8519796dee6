package sdl

import "testing"

func newTestContext() *Context {
	return NewContext(64, nil, nil)
}

func TestAggregateBitfieldWideningAcrossByteBoundary(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.BeginAggregate("flags", AggStruct, loc)
	c.AggregateMember("a", TyBitfield, MemberItem, loc, "", 6, false)
	c.AggregateMember("b", TyBitfield, MemberItem, loc, "", 4, false)
	agg, diag := c.EndAggregate("flags", loc)
	if diag != nil {
		t.Fatalf("EndAggregate: %v", diag)
	}
	if len(agg.Members) < 2 {
		t.Fatalf("got %d members, want at least 2", len(agg.Members))
	}
	a, b := agg.Members[0], agg.Members[1]
	if a.Item.Type != TyBitfieldWord || b.Item.Type != TyBitfieldWord {
		t.Errorf("widening: a.Type=%v b.Type=%v, want both widened to TyBitfieldWord (6+4=10 bits > 8-bit byte container)", a.Item.Type, b.Item.Type)
	}
}

func TestAggregateUnionImplicitSizeGetsFiller(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	agg := c.BeginAggregate("u", AggUnion, loc)
	agg.Type = TyLong // implicit scalar-typed union
	c.AggregateMember("lo", TyByte, MemberItem, loc, "", 0, false)
	done, diag := c.EndAggregate("u", loc)
	if diag != nil {
		t.Fatalf("EndAggregate: %v", diag)
	}
	if done.Size != 4 {
		t.Errorf("union size = %d, want 4 (padded to LONGWORD base type)", done.Size)
	}
	last := done.Members[len(done.Members)-1]
	if !last.Filler {
		t.Errorf("last member is not a filler, want a synthesized LONGWORD filler")
	}
}

func TestAggregateEndNameMismatchIsMatchEnd(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.BeginAggregate("real_name", AggStruct, loc)
	c.AggregateMember("x", TyByte, MemberItem, loc, "", 0, false)
	_, diag := c.EndAggregate("wrong_name", loc)
	if diag == nil || diag.Code != CodeMatchEnd {
		t.Errorf("EndAggregate with mismatched name = %v, want CodeMatchEnd", diag)
	}
}

func TestAggregateEmptyIsNullStruct(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.BeginAggregate("empty", AggStruct, loc)
	_, diag := c.EndAggregate("empty", loc)
	if diag == nil || diag.Code != CodeNullStruct {
		t.Errorf("EndAggregate on empty aggregate = %v, want CodeNullStruct", diag)
	}
}

func TestAggregateNestedSubaggregateOffset(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.BeginAggregate("outer", AggStruct, loc)
	c.AggregateMember("head", TyLong, MemberItem, loc, "", 0, false)
	c.AggregateMember("nested", TypeID(AggStruct), MemberSubaggregate, loc, "", 0, false)
	c.AggregateMember("x", TyByte, MemberItem, loc, "", 0, false)
	if diag := c.EndSubaggregate("", loc); diag != nil {
		t.Fatalf("EndSubaggregate: %v", diag)
	}
	agg, diag := c.EndAggregate("outer", loc)
	if diag != nil {
		t.Fatalf("EndAggregate: %v", diag)
	}
	sub := agg.Members[1].Subaggregate
	if sub.CurrentOffset != 4 {
		t.Errorf("nested subaggregate starts at offset %d, want 4 (after the LONGWORD head)", sub.CurrentOffset)
	}
}

func TestAggregateDepthTracksPushPop(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.BeginAggregate("outer", AggStruct, loc)
	if c.AggregateDepth() != 1 {
		t.Fatalf("depth after BeginAggregate = %d, want 1", c.AggregateDepth())
	}
	c.AggregateMember("nested", TypeID(AggStruct), MemberSubaggregate, loc, "", 0, false)
	if c.AggregateDepth() != 2 {
		t.Fatalf("depth after nested member = %d, want 2", c.AggregateDepth())
	}
	c.AggregateMember("x", TyByte, MemberItem, loc, "", 0, false)
	c.EndSubaggregate("", loc)
	if c.AggregateDepth() != 1 {
		t.Errorf("depth after EndSubaggregate = %d, want 1", c.AggregateDepth())
	}
}
