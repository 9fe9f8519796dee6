package sdl

import "testing"

func TestRegistryRangesAreDisjoint(t *testing.T) {
	r := NewRegistry(64)
	d := &Declare{Name: "a", Underlying: TyLong}
	r.allocDeclare(d)
	it := &Item{Name: "b", Type: TyLong}
	r.allocItem(it)
	agg := &Aggregate{Name: "c"}
	r.allocAggregate(agg)
	e := &Enum{Name: "d"}
	r.allocEnum(e)

	if kindOf(d.ID) != KindDeclare {
		t.Errorf("declare id %d classified as %v, want KindDeclare", d.ID, kindOf(d.ID))
	}
	if kindOf(it.ID) != KindItem {
		t.Errorf("item id %d classified as %v, want KindItem", it.ID, kindOf(it.ID))
	}
	if kindOf(agg.ID) != KindAggregate {
		t.Errorf("aggregate id %d classified as %v, want KindAggregate", agg.ID, kindOf(agg.ID))
	}
	if kindOf(e.ID) != KindEnum {
		t.Errorf("enum id %d classified as %v, want KindEnum", e.ID, kindOf(e.ID))
	}
}

func TestRegistryIDsAreMonotonic(t *testing.T) {
	r := NewRegistry(64)
	first := &Declare{Name: "first", Underlying: TyLong}
	r.allocDeclare(first)
	second := &Declare{Name: "second", Underlying: TyLong}
	r.allocDeclare(second)
	if second.ID <= first.ID {
		t.Errorf("second.ID = %d, want > first.ID = %d", second.ID, first.ID)
	}
}

func TestSizeOfBaseTypesByWordSize(t *testing.T) {
	cases := []struct {
		name     string
		wordSize int
		typeID   TypeID
		want     int64
	}{
		{"byte/32", 32, TyByte, 1},
		{"long/32", 32, TyLong, 4},
		{"addr/32", 32, TyAddr, 4},
		{"addr/64", 64, TyAddr, 8},
		{"quad/64", 64, TyQuad, 8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewRegistry(c.wordSize)
			if got := r.SizeOf(c.typeID); got != c.want {
				t.Errorf("SizeOf(%v) on word size %d = %d, want %d", c.typeID, c.wordSize, got, c.want)
			}
		})
	}
}

func TestIsUnsignedSignEncoding(t *testing.T) {
	r := NewRegistry(64)
	if r.IsUnsigned(-TyLong) {
		t.Errorf("IsUnsigned(-TyLong) = true, want false (negative sign marks signed)")
	}
	if !r.IsUnsigned(TyBool) {
		t.Errorf("IsUnsigned(TyBool) = false, want true (bool is inherently unsigned)")
	}
}

func TestIsUnsignedThroughDeclareChain(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	d := c.BeginDeclare("flags_t", TyBool, loc)
	c.CompleteDeclare(d, loc)
	it := &Item{Name: "f", Type: d.ID}
	c.Registry.allocItem(it)
	if !c.Registry.IsUnsigned(it.ID) {
		t.Errorf("IsUnsigned through ITEM->DECLARE->BOOL chain = false, want true")
	}
}

func TestIsAddressRecognizesOnlyAddressFamily(t *testing.T) {
	r := NewRegistry(64)
	if !r.IsAddress(TyPointer) {
		t.Errorf("IsAddress(TyPointer) = false, want true")
	}
	if r.IsAddress(TyLong) {
		t.Errorf("IsAddress(TyLong) = true, want false")
	}
}
