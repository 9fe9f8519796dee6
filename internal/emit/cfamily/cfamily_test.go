package cfamily

import (
	"strings"
	"testing"

	"github.com/open-sdl/sdlc/internal/sdl"
)

func TestNameFormattingWithPrefixAndTag(t *testing.T) {
	e := New(Options{})
	if got := e.name("foo", "K", "bar"); got != "foo$K_bar" {
		t.Errorf("name(foo,K,bar) = %q, want foo$K_bar", got)
	}
}

func TestNameFormattingSuppressesPrefix(t *testing.T) {
	e := New(Options{SuppressPrefix: true})
	if got := e.name("foo", "K", "bar"); got != "K_bar" {
		t.Errorf("name(foo,K,bar) with SuppressPrefix = %q, want K_bar", got)
	}
}

func TestNameFormattingSuppressesTag(t *testing.T) {
	e := New(Options{SuppressTag: true})
	if got := e.name("foo", "K", "bar"); got != "foo$bar" {
		t.Errorf("name(foo,K,bar) with SuppressTag = %q, want foo$bar", got)
	}
}

func TestNameFormattingNoPrefixOrTag(t *testing.T) {
	e := New(Options{})
	if got := e.name("", "", "bar"); got != "bar" {
		t.Errorf("name(,,bar) = %q, want bar", got)
	}
}

func TestFormatRadixHexOctalDecimal(t *testing.T) {
	cases := []struct {
		v    int64
		r    sdl.Radix
		want string
	}{
		{255, sdl.RadixHex, "0xFF"},
		{8, sdl.RadixOctal, "010"},
		{42, sdl.RadixDecimal, "42"},
	}
	for _, c := range cases {
		if got := formatRadix(c.v, c.r); got != c.want {
			t.Errorf("formatRadix(%d, %v) = %q, want %q", c.v, c.r, got, c.want)
		}
	}
}

func TestCBaseTypeNameUnsignedIntegerBase(t *testing.T) {
	ctx := sdl.NewContext(64, nil, nil)
	if got := cBaseTypeName(ctx, sdl.TyLong); got != "int" {
		t.Errorf("cBaseTypeName(TyLong) = %q, want int", got)
	}
	if got := cBaseTypeName(ctx, -sdl.TyLong); got != "int" {
		t.Errorf("cBaseTypeName(-TyLong, signed) = %q, want int", got)
	}
}

func TestCBaseTypeNameRecursesThroughDeclareChain(t *testing.T) {
	ctx := sdl.NewContext(64, nil, nil)
	loc := sdl.SourceLoc{Line: 1}
	d := ctx.BeginDeclare("flags_t", sdl.TyLong, loc)
	ctx.CompleteDeclare(d, loc)
	if got := cBaseTypeName(ctx, d.ID); got != "int" {
		t.Errorf("cBaseTypeName(declare over TyLong) = %q, want int", got)
	}
}

func TestCBaseTypeNameNamesAggregateByItsOwnName(t *testing.T) {
	ctx := sdl.NewContext(64, nil, nil)
	loc := sdl.SourceLoc{Line: 1}
	ctx.BeginAggregate("POINT", sdl.AggStruct, loc)
	ctx.AggregateMember("x", sdl.TyLong, sdl.MemberItem, loc, "", 0, false)
	agg, diag := ctx.EndAggregate("POINT", loc)
	if diag != nil {
		t.Fatalf("EndAggregate: %v", diag)
	}
	if got := cBaseTypeName(ctx, agg.Type); got != "POINT" {
		t.Errorf("cBaseTypeName(aggregate) = %q, want POINT", got)
	}
}

func TestConstantEmitsDefine(t *testing.T) {
	e := New(Options{})
	ctx := sdl.NewContext(64, nil, nil)
	var buf strings.Builder
	c := &sdl.Constant{Name: "MAX", Tag: "K", Kind: sdl.ConstantNumeric, Value: 100, Radix: sdl.RadixDecimal}
	e.Constant(&buf, c, ctx)
	want := "#define K_MAX 100\n"
	if buf.String() != want {
		t.Errorf("Constant output = %q, want %q", buf.String(), want)
	}
}

func TestEnumerateEmitsTypedefEnum(t *testing.T) {
	e := New(Options{})
	ctx := sdl.NewContext(64, nil, nil)
	var buf strings.Builder
	en := &sdl.Enum{
		Name: "COLOR",
		Tag:  "N",
		Members: []*sdl.EnumMember{
			{Name: "RED", Value: 0, ValueSet: true},
			{Name: "GREEN", Value: 1, ValueSet: false},
		},
	}
	e.Enumerate(&buf, en, ctx)
	got := buf.String()
	if !strings.Contains(got, "typedef enum N_COLOR {") {
		t.Errorf("Enumerate output missing typedef header: %q", got)
	}
	if !strings.Contains(got, "N_RED = 0,") {
		t.Errorf("Enumerate output missing explicit value member: %q", got)
	}
	if !strings.Contains(got, "N_GREEN\n") {
		t.Errorf("Enumerate output missing auto-increment member: %q", got)
	}
	if !strings.Contains(got, "} N_COLOR;") {
		t.Errorf("Enumerate output missing closing typedef name: %q", got)
	}
}

func TestEntryEmitsPrototypeWithByReferenceParam(t *testing.T) {
	e := New(Options{})
	ctx := sdl.NewContext(64, nil, nil)
	var buf strings.Builder
	en := &sdl.Entry{
		Name: "get_value",
		Returns: &sdl.EntryReturn{Type: sdl.TyLong},
		Parameters: []*sdl.Parameter{
			{Name: "out", Type: sdl.TyLong, Passing: sdl.ByReference},
		},
	}
	e.Entry(&buf, en, ctx)
	want := "int get_value(int *out);\n"
	if buf.String() != want {
		t.Errorf("Entry output = %q, want %q", buf.String(), want)
	}
}

func TestEntryWithNoParametersEmitsVoid(t *testing.T) {
	e := New(Options{})
	ctx := sdl.NewContext(64, nil, nil)
	var buf strings.Builder
	en := &sdl.Entry{Name: "do_thing"}
	e.Entry(&buf, en, ctx)
	want := "void do_thing(void);\n"
	if buf.String() != want {
		t.Errorf("Entry output = %q, want %q", buf.String(), want)
	}
}

func TestModuleAndModuleEndWrapInIncludeGuard(t *testing.T) {
	e := New(Options{})
	ctx := sdl.NewContext(64, nil, nil)
	ctx.ModuleName = "widget"
	var buf strings.Builder
	e.Module(&buf, ctx)
	e.ModuleEnd(&buf, ctx)
	got := buf.String()
	if !strings.Contains(got, "#ifndef WIDGET_H") || !strings.Contains(got, "#endif /* WIDGET_H */") {
		t.Errorf("Module/ModuleEnd output = %q, want an include guard for WIDGET_H", got)
	}
}

func TestAggregateEmitsStructBraces(t *testing.T) {
	e := New(Options{})
	ctx := sdl.NewContext(64, nil, nil)
	agg := &sdl.Aggregate{Name: "POINT", AggType: sdl.AggStruct}
	var buf strings.Builder
	e.Aggregate(&buf, agg, sdl.NodeAggregate, false, 0, ctx)
	e.Aggregate(&buf, agg, sdl.NodeAggregate, true, 0, ctx)
	got := buf.String()
	if !strings.Contains(got, "typedef struct POINT {") {
		t.Errorf("Aggregate open output = %q, want a typedef struct header", got)
	}
	if !strings.Contains(got, "} POINT;") {
		t.Errorf("Aggregate close output = %q, want a closing typedef name", got)
	}
}

func TestAggregateEmitsBitfieldMember(t *testing.T) {
	e := New(Options{})
	ctx := sdl.NewContext(64, nil, nil)
	m := &sdl.Member{
		Kind:      sdl.MemberItem,
		BitLength: 4,
		Item:      &sdl.MemberItem{Name: "flags", Type: sdl.TyBitfieldByte, IsBitfield: true},
	}
	var buf strings.Builder
	e.Aggregate(&buf, m, sdl.NodeItem, false, 1, ctx)
	want := "    unsigned char flags : 4;\n"
	if buf.String() != want {
		t.Errorf("Aggregate(NodeItem, bitfield) output = %q, want %q", buf.String(), want)
	}
}
