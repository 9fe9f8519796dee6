// Package parser drives an sdl.Context from SDL source text: a
// hand-rolled recursive-descent parser in the same peek/advance/at/
// expect style used throughout this module's lexer/parser pair, scaled
// down to the statement grammar SDL actually needs (line-oriented
// declarations rather than Go's expression grammar).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/open-sdl/sdlc/internal/lexer"
	"github.com/open-sdl/sdlc/internal/sdl"
)

// Parser consumes a token stream and issues the corresponding calls
// against an *sdl.Context, mirroring the legacy parser-action-per-
// grammar-rule design described in spec.md §2.
type Parser struct {
	tokens []lexer.Token
	pos    int
	ctx    *sdl.Context
	errors []string
}

// New returns a Parser over src's tokens, driving ctx.
func New(src []byte, ctx *sdl.Context) *Parser {
	toks := lexer.New(src).Tokenize()
	return &Parser{tokens: toks, ctx: ctx}
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) at(kind lexer.TokenKind) bool { return p.peek().Kind == kind }

func (p *Parser) atKeyword(kw string) bool {
	t := p.peek()
	return t.Kind == lexer.IDENT && strings.EqualFold(t.Val, kw)
}

func (p *Parser) expect(kind lexer.TokenKind) lexer.Token {
	tok := p.advance()
	if tok.Kind != kind {
		p.errorf(tok, "expected token kind %d, got %q", kind, tok.Val)
	}
	return tok
}

func (p *Parser) expectIdent() lexer.Token { return p.expect(lexer.IDENT) }

func (p *Parser) errorf(tok lexer.Token, format string, args ...interface{}) {
	msg := fmt.Sprintf("%d:%d: %s", tok.Line, tok.Col, fmt.Sprintf(format, args...))
	p.errors = append(p.errors, msg)
}

func (p *Parser) loc() sdl.SourceLoc {
	t := p.peek()
	return sdl.SourceLoc{Line: t.Line, Col: t.Col}
}

// skipNewlines consumes any run of blank NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) endOfStatement() {
	for p.at(lexer.NEWLINE) {
		p.advance()
		return
	}
}

// Errors returns accumulated low-level syntax errors (distinct from the
// sdl.Diagnostics the semantic actions themselves report).
func (p *Parser) Errors() []string { return p.errors }

// ParseProgram consumes the whole token stream, driving ctx through
// every statement it recognizes. It returns the low-level parse errors;
// semantic diagnostics are available afterward via ctx.Diags.
func (p *Parser) ParseProgram() []string {
	for {
		p.skipNewlines()
		if p.at(lexer.EOF) {
			break
		}
		if p.at(lexer.COMMENT) {
			c := p.advance()
			p.ctx.AttachComment(c.Val, p.loc(), false)
			p.endOfStatement()
			continue
		}
		p.parseStatement()
	}
	return p.errors
}

func (p *Parser) parseStatement() {
	tok := p.peek()
	if tok.Kind != lexer.IDENT {
		p.advance()
		return
	}
	kw := strings.ToUpper(tok.Val)
	if !p.ctx.Cond.ProcessingEnabled {
		switch kw {
		case "IFSYMBOL", "ELSE_IFSYMBOL", "IFLANGUAGE", "ELSE", "END_IFSYMBOL", "END_IFLANGUAGE":
		default:
			// Inside a disabled conditional branch only the conditional
			// directives are acted on; every other statement is skipped.
			kw = ""
		}
	}
	switch kw {
	case "MODULE":
		p.parseModule()
	case "END_MODULE":
		p.advance()
		p.ctx.EndModule()
		p.endOfStatement()
	case "LITERAL":
		p.parseLiteral()
	case "DECLARE":
		p.parseDeclare()
	case "ITEM":
		p.parseItem()
	case "CONSTANT":
		p.parseConstant()
	case "AGGREGATE", "STRUCTURE", "UNION":
		p.parseAggregate()
	case "ENTRY":
		p.parseEntry()
	case "IFSYMBOL":
		p.parseIfSymbol()
	case "ELSE_IFSYMBOL":
		p.parseElseIfSymbol()
	case "IFLANGUAGE":
		p.parseIfLanguage()
	case "ELSE":
		p.advance()
		p.applyDirective(sdl.DirElse, 0, true, nil)
		p.endOfStatement()
	case "END_IFSYMBOL":
		p.advance()
		p.applyDirective(sdl.DirEndIfSymbol, 0, true, nil)
		p.endOfStatement()
	case "END_IFLANGUAGE":
		p.advance()
		p.applyDirective(sdl.DirEndIfLanguage, 0, true, nil)
		p.endOfStatement()
	default:
		// Unrecognized leading token: skip to the next statement boundary
		// rather than aborting the whole translation run.
		for !p.at(lexer.NEWLINE) && !p.at(lexer.EOF) {
			p.advance()
		}
		p.endOfStatement()
	}
}

func (p *Parser) applyDirective(dir sdl.Directive, symValue int64, symKnown bool, langs []int) {
	if err := p.ctx.Cond.Apply(dir, symValue, symKnown, langs); err != nil {
		if diag, ok := err.(*sdl.Diagnostic); ok {
			loc := sdl.SourceLoc{}
			if p.pos > 0 {
				t := p.tokens[p.pos-1]
				loc = sdl.SourceLoc{Line: t.Line, Col: t.Col}
			}
			p.ctx.Diags.Report(sdl.NewDiagnostic(diag.Code, loc, "%s", diag.Message))
		}
	}
}

func (p *Parser) parseIfSymbol() {
	p.advance()
	name := p.expectIdent().Val
	val, known := p.ctx.SymbolValue(name)
	p.applyDirective(sdl.DirIfSymbol, val, known, nil)
	p.endOfStatement()
}

func (p *Parser) parseElseIfSymbol() {
	p.advance()
	name := p.expectIdent().Val
	val, known := p.ctx.SymbolValue(name)
	p.applyDirective(sdl.DirElseIfSymbol, val, known, nil)
	p.endOfStatement()
}

func (p *Parser) parseIfLanguage() {
	p.advance()
	var idxs []int
	for {
		name := p.expectIdent().Val
		idxs = append(idxs, p.ctx.LanguageIndex(name))
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.applyDirective(sdl.DirIfLanguage, 0, true, idxs)
	p.endOfStatement()
}

// parseModule handles "MODULE name [IDENT 'version'] [options]".
func (p *Parser) parseModule() {
	p.advance()
	name := p.expectIdent().Val
	ident := ""
	if p.atKeyword("IDENT") {
		p.advance()
		ident = p.advance().Val
	}
	title := p.parseOptions()
	titleStr := ""
	for _, o := range title {
		if o.Kind == sdl.OptTypeName {
			titleStr = o.String
		}
	}
	p.ctx.BeginModule(name, ident, titleStr)
}

// parseLiteral copies raw lines through to LITERAL/END_LITERAL,
// unparsed, per spec.md §4.4's passthrough block.
func (p *Parser) parseLiteral() {
	p.advance()
	p.endOfStatement()
	var block sdl.LiteralBlock
	for !p.at(lexer.EOF) {
		if p.atKeyword("END_LITERAL") {
			p.advance()
			p.endOfStatement()
			break
		}
		var line strings.Builder
		for !p.at(lexer.NEWLINE) && !p.at(lexer.EOF) {
			tok := p.advance()
			if line.Len() > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(tok.Val)
		}
		block.AddLine(line.String())
		p.endOfStatement()
	}
	for _, ln := range block.Lines {
		p.ctx.EmitLiteralLine(ln)
	}
}

// parseDeclare handles "DECLARE name = TYPE basetype [options]".
func (p *Parser) parseDeclare() {
	p.advance()
	name := p.expectIdent().Val
	p.expect(lexer.EQUALS)
	if p.atKeyword("TYPE") {
		p.advance()
	}
	typeID := p.parseTypeRef()
	loc := p.loc()
	p.parseOptionsInto()
	d := p.ctx.BeginDeclare(name, typeID, loc)
	p.ctx.CompleteDeclare(d, loc)
}

// parseItem handles "ITEM name TYPE basetype [options]".
func (p *Parser) parseItem() {
	p.advance()
	name := p.expectIdent().Val
	if p.atKeyword("TYPE") {
		p.advance()
	}
	typeID := p.parseTypeRef()
	loc := p.loc()
	p.parseOptionsInto()
	it, diag := p.ctx.BeginItem(name, typeID, loc)
	if diag != nil {
		p.ctx.Diags.Report(diag)
		p.ctx.Options.Reset()
		return
	}
	p.ctx.CompleteItem(it, loc)
}

// parseConstant handles "CONSTANT name|(name,...) = value [options]"
// and its ENUMERATE variant.
func (p *Parser) parseConstant() {
	p.advance()
	var idList strings.Builder
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			tok := p.advance()
			if tok.Kind == lexer.COMMA {
				idList.WriteByte(',')
				continue
			}
			idList.WriteString(tok.Val)
		}
		p.expect(lexer.RPAREN)
	} else {
		idList.WriteString(p.expectIdent().Val)
	}
	var kind sdl.ConstantKind
	var value int64
	var str string
	if p.at(lexer.EQUALS) {
		p.advance()
		if p.at(lexer.STRING) {
			kind = sdl.ConstantString
			str = p.advance().Val
		} else {
			value, _ = strconv.ParseInt(p.advance().Val, 0, 64)
		}
	}
	loc := p.loc()
	p.parseOptionsInto()
	p.ctx.CompleteConstant(idList.String(), kind, value, str, loc)
}

// parseEntry handles "ENTRY name (params...) [options]".
func (p *Parser) parseEntry() {
	p.advance()
	name := p.expectIdent().Val
	loc := p.loc()
	e := p.ctx.BeginEntry(name, loc)
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			pname := p.expectIdent().Val
			passing := sdl.ByValue
			var ptype sdl.TypeID
			if p.atKeyword("TYPE") {
				p.advance()
				ptype = p.parseTypeRef()
			}
			ploc := p.loc()
			p.parseOptionsInto()
			p.ctx.AddParameter(e, pname, ptype, passing, ploc)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
		}
		p.expect(lexer.RPAREN)
	}
	p.parseOptionsInto()
	p.ctx.CompleteEntry(e, loc)
}

// parseAggregate handles the top-level AGGREGATE/STRUCTURE/UNION form
// and recurses into nested STRUCTURE/UNION members via
// parseAggregateBody, ending at the matching END.
func (p *Parser) parseAggregate() {
	kind := strings.ToUpper(p.peek().Val)
	p.advance()
	name := p.expectIdent().Val
	aggType := sdl.AggStruct
	if kind == "UNION" {
		aggType = sdl.AggUnion
	} else if p.atKeyword("UNION") {
		p.advance()
		aggType = sdl.AggUnion
	} else if p.atKeyword("STRUCTURE") {
		p.advance()
	}
	loc := p.loc()
	p.ctx.BeginAggregate(name, aggType, loc)
	p.parseOptionsInto()
	p.parseAggregateBody()
	endLoc := p.loc()
	endName := ""
	if p.atKeyword("END") {
		p.advance()
		if p.at(lexer.IDENT) && !p.at(lexer.NEWLINE) {
			endName = p.peek().Val
			if strings.EqualFold(endName, name) {
				p.advance()
			} else {
				endName = ""
			}
		}
	}
	if _, diag := p.ctx.EndAggregate(endName, endLoc); diag != nil {
		p.ctx.Diags.Report(diag)
	}
	p.endOfStatement()
}

// parseAggregateBody consumes member statements until it sees an END
// matching the current aggregate, recursing for nested
// STRUCTURE/UNION members.
func (p *Parser) parseAggregateBody() {
	for {
		p.skipNewlines()
		if p.at(lexer.EOF) || p.atKeyword("END") {
			return
		}
		if p.at(lexer.COMMENT) {
			c := p.advance()
			p.ctx.AttachComment(c.Val, p.loc(), false)
			p.endOfStatement()
			continue
		}
		if p.atKeyword("STRUCTURE") || p.atKeyword("UNION") {
			p.parseSubaggregate()
			continue
		}
		p.parseAggregateMember()
	}
}

func (p *Parser) parseSubaggregate() {
	kind := strings.ToUpper(p.peek().Val)
	p.advance()
	name := ""
	if p.at(lexer.IDENT) && !p.atKeyword("TYPE") {
		name = p.advance().Val
	}
	loc := p.loc()
	selector := sdl.TypeID(sdl.AggStruct)
	if kind == "UNION" {
		selector = sdl.TypeID(sdl.AggUnion)
	}
	p.ctx.AggregateMember(name, selector, sdl.MemberSubaggregate, loc, "", 0, false)
	p.parseOptionsInto()
	p.parseAggregateBody()
	if p.atKeyword("END") {
		p.advance()
		endName := ""
		if p.at(lexer.IDENT) {
			endName = p.advance().Val
		}
		if diag := p.ctx.EndSubaggregate(endName, p.loc()); diag != nil {
			p.ctx.Diags.Report(diag)
		}
	}
	p.endOfStatement()
}

// parseAggregateMember handles one scalar member line: "name TYPE
// basetype [: bitlen] [options]".
func (p *Parser) parseAggregateMember() {
	name := p.expectIdent().Val
	if p.atKeyword("TYPE") {
		p.advance()
	}
	typeID := p.parseTypeRef()
	loc := p.loc()
	var bitLen int64
	sized := false
	if p.at(lexer.NUMBER) {
		bitLen, _ = strconv.ParseInt(p.advance().Val, 0, 64)
		sized = true
	}
	p.ctx.AggregateMember(name, typeID, sdl.MemberItem, loc, "", bitLen, sized)
	p.parseOptionsInto()
}

// parseOptionsInto reads option clauses until end-of-statement,
// appending each directly to ctx.Options.
func (p *Parser) parseOptionsInto() {
	for _, o := range p.parseOptions() {
		p.ctx.Options.Append(o)
	}
	p.endOfStatement()
}

// parseOptions reads a run of option keyword clauses (PREFIX, TAG,
// ALIGN, DIMENSION, ...) up to the next NEWLINE/EOF, matching spec.md
// §4.2's option-buffer protocol: each clause becomes one Option.
func (p *Parser) parseOptions() []sdl.Option {
	var opts []sdl.Option
	for !p.at(lexer.NEWLINE) && !p.at(lexer.EOF) {
		if !p.at(lexer.IDENT) {
			p.advance()
			continue
		}
		kw := strings.ToUpper(p.peek().Val)
		switch kw {
		case "PREFIX":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptPrefix, String: p.advance().Val})
		case "TAG":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptTag, String: p.advance().Val})
		case "MARKER":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptMarker, String: p.advance().Val})
		case "BASED":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptBased, String: p.advance().Val})
		case "ORIGIN":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptOrigin, String: p.advance().Val})
		case "COUNTER":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptCounter, String: p.advance().Val})
		case "TYPENAME", "TITLE":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptTypeName, String: p.advance().Val})
		case "INCREMENT":
			p.advance()
			v, _ := strconv.ParseInt(p.advance().Val, 0, 64)
			opts = append(opts, sdl.Option{Kind: sdl.OptIncrement, Value: v})
		case "RADIX":
			p.advance()
			r := sdl.RadixDecimal
			switch strings.ToUpper(p.advance().Val) {
			case "HEX", "HEXADECIMAL":
				r = sdl.RadixHex
			case "OCTAL":
				r = sdl.RadixOctal
			}
			opts = append(opts, sdl.Option{Kind: sdl.OptRadix, Value: int64(r)})
		case "ENUMERATE":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptEnumerate})
		case "TYPEDEF":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptTypedef})
		case "COMMON":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptCommon})
		case "GLOBAL":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptGlobal})
		case "FILL":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptFill})
		case "MASK":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptMask})
		case "SIGNED":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptSigned, Value: 1})
		case "UNSIGNED":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptSigned, Value: 0})
		case "LENGTH":
			p.advance()
			v, _ := strconv.ParseInt(p.advance().Val, 0, 64)
			opts = append(opts, sdl.Option{Kind: sdl.OptLength, Value: v})
		case "ALIGN":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptAlign})
		case "NOALIGN":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptNoAlign})
		case "BASEALIGN":
			p.advance()
			v, _ := strconv.ParseInt(p.advance().Val, 0, 64)
			opts = append(opts, sdl.Option{Kind: sdl.OptBaseAlign, Value: v})
		case "DIMENSION":
			p.advance()
			lo, _ := strconv.ParseInt(p.advance().Val, 0, 64)
			opts = append(opts, sdl.Option{Kind: sdl.OptDimension, Value: lo})
			if p.at(lexer.COMMA) {
				p.advance()
				hi, _ := strconv.ParseInt(p.advance().Val, 0, 64)
				opts = append(opts, sdl.Option{Kind: sdl.OptDimension, Value: hi})
			}
		case "ALIAS":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptAlias, String: p.advance().Val})
		case "LINKAGE":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptLinkage, String: p.advance().Val})
		case "VARIABLE":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptVariable})
		case "RETURNS":
			p.advance()
			t := p.parseTypeRef()
			opts = append(opts, sdl.Option{Kind: sdl.OptReturnsType, Value: int64(t)})
		case "NAMED":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptReturnsNamed, String: p.advance().Val})
		case "IN":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptIn})
		case "OUT":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptOut})
		case "DEFAULT":
			p.advance()
			v, _ := strconv.ParseInt(p.advance().Val, 0, 64)
			opts = append(opts, sdl.Option{Kind: sdl.OptDefault, Value: v})
		case "OPTIONAL":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptOptional})
		case "LIST":
			p.advance()
			opts = append(opts, sdl.Option{Kind: sdl.OptList})
		default:
			// Not an option keyword: stop so the caller (e.g. aggregate-body
			// loop) can reinterpret the token as the next statement.
			return opts
		}
	}
	return opts
}

var typeKeywords = map[string]sdl.TypeID{
	"BYTE": sdl.TyByte, "WORD": sdl.TyWord, "LONGWORD": sdl.TyLong, "LONG": sdl.TyLong,
	"QUADWORD": sdl.TyQuad, "QUAD": sdl.TyQuad, "OCTAWORD": sdl.TyOcta, "OCTA": sdl.TyOcta,
	"CHAR": sdl.TyChar, "CHAR_VARYING": sdl.TyCharVarying, "VARYING": sdl.TyCharVarying,
	"BOOLEAN": sdl.TyBool, "BOOL": sdl.TyBool,
	"ADDRESS": sdl.TyAddr, "ADDRESS_LONG": sdl.TyAddrL, "ADDRESS_QUAD": sdl.TyAddrQ,
	"ADDRESS_HW": sdl.TyAddrHW, "HW_ADDRESS": sdl.TyHWAddr,
	"POINTER": sdl.TyPointer, "POINTER_LONG": sdl.TyPointerL, "POINTER_QUAD": sdl.TyPointerQ,
	"POINTER_HW": sdl.TyPointerHW,
	"DECIMAL":    sdl.TyDecimal,
	"BITFIELD":   sdl.TyBitfield, "BITFIELD_BYTE": sdl.TyBitfieldByte, "BITFIELD_WORD": sdl.TyBitfieldWord,
	"BITFIELD_LONG": sdl.TyBitfieldLong, "BITFIELD_QUAD": sdl.TyBitfieldQuad, "BITFIELD_OCTA": sdl.TyBitfieldOcta,
	"T_FLOATING": sdl.TyTFloat, "S_FLOATING": sdl.TySFloat, "X_FLOATING": sdl.TyXFloat,
	"F_FLOATING": sdl.TyFFloat, "D_FLOATING": sdl.TyDFloat, "G_FLOATING": sdl.TyGFloat, "H_FLOATING": sdl.TyHFloat,
	"ENTRY": sdl.TyEntry, "VOID": sdl.TyVoid,
}

// parseTypeRef resolves a type reference: either a base-type keyword or
// a user-defined DECLARE/ITEM/AGGREGATE/ENUM name, per spec.md §4.1.
func (p *Parser) parseTypeRef() sdl.TypeID {
	tok := p.advance()
	up := strings.ToUpper(tok.Val)
	signed := false
	if up == "SIGNED" {
		signed = true
		tok = p.advance()
		up = strings.ToUpper(tok.Val)
	}
	if t, ok := typeKeywords[up]; ok {
		if signed {
			return -t
		}
		return t
	}
	if d := p.ctx.Registry.LookupDeclare(tok.Val); d != nil {
		return d.ID
	}
	if it := p.ctx.Registry.LookupItem(tok.Val); it != nil {
		return it.ID
	}
	if agg := p.ctx.Registry.LookupAggregate(tok.Val); agg != nil {
		return agg.Type
	}
	if e := p.ctx.Registry.LookupEnum(tok.Val); e != nil {
		return sdl.TyEnumElement
	}
	p.errorf(tok, "undefined type %q", tok.Val)
	return sdl.TyLong
}
