package sdl

import "testing"

func TestNormalizeTagStripsTrailingUnderscoresRecursively(t *testing.T) {
	got := NormalizeTag("FOO___", "BAR")
	if got != "FOO" {
		t.Errorf("NormalizeTag(%q) = %q, want %q", "FOO___", got, "FOO")
	}
}

func TestNormalizeTagLowercasesForLowercaseIdent(t *testing.T) {
	got := NormalizeTag("FOO", "bar")
	if got != "foo" {
		t.Errorf("NormalizeTag with lower-case ident = %q, want %q", got, "foo")
	}
}

func TestNormalizeTagKeepsCaseForMixedIdent(t *testing.T) {
	got := NormalizeTag("Foo", "Bar")
	if got != "Foo" {
		t.Errorf("NormalizeTag with mixed-case ident = %q, want %q", got, "Foo")
	}
}

func TestResolveTagThroughDeclareChainTerminates(t *testing.T) {
	r := NewRegistry(64)
	base := &Declare{Name: "base_t", Underlying: TyLong}
	r.allocDeclare(base)
	mid := &Declare{Name: "mid_t", Underlying: base.ID}
	r.allocDeclare(mid)
	top := &Declare{Name: "top_t", Underlying: mid.ID}
	r.allocDeclare(top)

	if got := r.ResolveTag(top.ID); got != "L" {
		t.Errorf("ResolveTag through a 3-deep DECLARE chain = %q, want %q", got, "L")
	}
}

func TestResolveTagDanglingReferenceFallsBackToEmpty(t *testing.T) {
	r := NewRegistry(64)
	if got := r.ResolveTag(TypeID(99999)); got != "" {
		t.Errorf("ResolveTag(dangling) = %q, want empty string", got)
	}
}

func TestResolveTagAggregateIsR(t *testing.T) {
	r := NewRegistry(64)
	agg := &Aggregate{Name: "thing"}
	r.allocAggregate(agg)
	if got := r.ResolveTag(agg.ID); got != "R" {
		t.Errorf("ResolveTag(aggregate) = %q, want %q", got, "R")
	}
}
