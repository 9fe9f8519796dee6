package sdl

import "testing"

func TestBeginDeclareIsIdempotent(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	first := c.BeginDeclare("flags_t", TyLong, loc)
	second := c.BeginDeclare("flags_t", TyByte, loc)
	if second != first {
		t.Errorf("redeclaring an existing DECLARE allocated a new record, want the same pointer returned")
	}
	if second.Underlying != TyLong {
		t.Errorf("Underlying = %v after redeclare, want unchanged TyLong", second.Underlying)
	}
}

func TestCompleteDeclareDefaultsTagAndUnsigned(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	d := c.BeginDeclare("flags_t", TyBool, loc)
	if err := c.CompleteDeclare(d, loc); err != nil {
		t.Fatalf("CompleteDeclare: %v", err)
	}
	if !d.Unsigned {
		t.Errorf("Unsigned = false, want true (BOOL is inherently unsigned)")
	}
	if d.Tag != "" {
		t.Errorf("Tag = %q, want empty string (BOOL has no default tag)", d.Tag)
	}
	if d.Size != 1 {
		t.Errorf("Size = %d, want 1", d.Size)
	}
}

func TestCompleteDeclareSignedOptionOverridesUnderlying(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	d := c.BeginDeclare("s_long_t", TyLong, loc)
	c.Options.Append(Option{Kind: OptSigned, Value: 1})
	if err := c.CompleteDeclare(d, loc); err != nil {
		t.Fatalf("CompleteDeclare: %v", err)
	}
	if d.Unsigned {
		t.Errorf("Unsigned = true, want false (SIGNED option value=1 means signed)")
	}
}

func TestCompleteDeclareNilIsSafe(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.Options.Append(Option{Kind: OptTag, String: "X"})
	if err := c.CompleteDeclare(nil, loc); err != nil {
		t.Fatalf("CompleteDeclare(nil): %v", err)
	}
	if c.Options.Len() != 0 {
		t.Errorf("option buffer not drained after CompleteDeclare(nil)")
	}
}
