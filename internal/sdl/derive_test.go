package sdl

import "testing"

func TestDeriveConstantsSizeAndMask(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.BeginAggregate("FLAGS", AggStruct, loc)
	c.AggregateMember("enabled", TyBitfield, MemberItem, loc, "", 4, true)
	c.Options.Append(Option{Kind: OptMask})
	agg, diag := c.EndAggregate("FLAGS", loc)
	if diag != nil {
		t.Fatalf("EndAggregate: %v", diag)
	}

	var sizeConst, fieldSize, fieldMask *Constant
	for _, cn := range c.Constants {
		switch {
		case cn.Name == "FLAGS" && cn.Tag == "S":
			sizeConst = cn
		case cn.Name == "enabled" && cn.Tag == "S":
			fieldSize = cn
		case cn.Name == "enabled" && cn.Tag == "M":
			fieldMask = cn
		}
	}

	if sizeConst == nil || sizeConst.Value != agg.Size {
		t.Fatalf("SIZE constant for aggregate = %+v, want Value=%d", sizeConst, agg.Size)
	}
	if fieldSize == nil || fieldSize.Value != 4 {
		t.Fatalf("SIZE constant for field = %+v, want Value=4", fieldSize)
	}
	if fieldMask == nil || fieldMask.Value != 0xF {
		t.Fatalf("MASK constant for field = %+v, want Value=0xF", fieldMask)
	}
	if fieldMask.Radix != RadixHex {
		t.Errorf("MASK constant radix = %v, want RadixHex", fieldMask.Radix)
	}
}

func TestDeriveConstantsWalksNestedSubaggregates(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.BeginAggregate("OUTER", AggStruct, loc)
	c.AggregateMember("nested", TypeID(AggStruct), MemberSubaggregate, loc, "", 0, false)
	c.AggregateMember("bits", TyBitfield, MemberItem, loc, "", 3, true)
	c.Options.Append(Option{Kind: OptMask})
	if diag := c.EndSubaggregate("", loc); diag != nil {
		t.Fatalf("EndSubaggregate: %v", diag)
	}
	_, diag := c.EndAggregate("OUTER", loc)
	if diag != nil {
		t.Fatalf("EndAggregate: %v", diag)
	}

	found := false
	for _, cn := range c.Constants {
		if cn.Name == "bits" && cn.Tag == "M" {
			found = true
		}
	}
	if !found {
		t.Errorf("DeriveConstants did not walk into the nested subaggregate for a MASK constant")
	}
}
