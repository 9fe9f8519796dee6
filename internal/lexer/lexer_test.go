package lexer

import "testing"

func kinds(tokens []Token) []TokenKind {
	ks := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		ks[i] = tok.Kind
	}
	return ks
}

func TestTokenizeIdentAndEquals(t *testing.T) {
	toks := New([]byte("DECLARE flags_t = TYPE LONGWORD")).Tokenize()
	want := []TokenKind{IDENT, IDENT, EQUALS, IDENT, IDENT, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d kinds %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] kind = %v, want %v", i, got[i], want[i])
		}
	}
	if toks[0].Val != "DECLARE" || toks[1].Val != "flags_t" {
		t.Errorf("token values = %q, %q, want DECLARE, flags_t", toks[0].Val, toks[1].Val)
	}
}

func TestTokenizePreservesNewlines(t *testing.T) {
	toks := New([]byte("A\nB")).Tokenize()
	want := []TokenKind{IDENT, NEWLINE, IDENT, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeLineComment(t *testing.T) {
	toks := New([]byte("A ! a trailing note\nB")).Tokenize()
	var comment *Token
	for i := range toks {
		if toks[i].Kind == COMMENT {
			comment = &toks[i]
		}
	}
	if comment == nil {
		t.Fatalf("no COMMENT token found in %v", toks)
	}
	if comment.Val != " a trailing note" {
		t.Errorf("comment text = %q, want %q", comment.Val, " a trailing note")
	}
}

func TestTokenizeBlockComment(t *testing.T) {
	toks := New([]byte("A /* multi\nline */ B")).Tokenize()
	var comment *Token
	for i := range toks {
		if toks[i].Kind == COMMENT {
			comment = &toks[i]
		}
	}
	if comment == nil {
		t.Fatalf("no COMMENT token found in %v", toks)
	}
	want := " multi\nline "
	if comment.Val != want {
		t.Errorf("comment text = %q, want %q", comment.Val, want)
	}
}

func TestTokenizeHexNumber(t *testing.T) {
	toks := New([]byte("0x1F")).Tokenize()
	if toks[0].Kind != NUMBER || toks[0].Val != "0x1F" {
		t.Errorf("token = %+v, want NUMBER 0x1F", toks[0])
	}
}

func TestTokenizeQuotedString(t *testing.T) {
	toks := New([]byte(`"hello world"`)).Tokenize()
	if toks[0].Kind != STRING || toks[0].Val != "hello world" {
		t.Errorf("token = %+v, want STRING %q", toks[0], "hello world")
	}
}

func TestTokenizePunctuation(t *testing.T) {
	toks := New([]byte("(a, b) % c.d")).Tokenize()
	want := []TokenKind{LPAREN, IDENT, COMMA, IDENT, RPAREN, PERCENT, IDENT, DOT, IDENT, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d kinds %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	toks := New([]byte("A\nBC")).Tokenize()
	// toks: A(line1,col1) NEWLINE(line1,col2) BC(line2,col1) EOF
	if toks[0].Line != 1 || toks[0].Col != 1 {
		t.Errorf("first token pos = line %d col %d, want line 1 col 1", toks[0].Line, toks[0].Col)
	}
	if toks[2].Line != 2 || toks[2].Col != 1 {
		t.Errorf("third token pos = line %d col %d, want line 2 col 1", toks[2].Line, toks[2].Col)
	}
}
