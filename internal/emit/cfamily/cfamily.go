// Package cfamily implements the initial OpenSDL output target named in
// spec.md §1: a C-family emitter satisfying the sdl.Emitter interface.
// Structures and unions become C struct/union declarations, bit-fields
// become C bit-field members, CONSTANT becomes #define, ENUM becomes a
// C enum, and ENTRY becomes a function prototype.
package cfamily

import (
	"fmt"
	"io"
	"strings"

	"github.com/open-sdl/sdlc/internal/sdl"
)

// Options controls name formatting, matching the CLI flags named in
// spec.md §6 ("suppression of prefix/tag in emitted names").
type Options struct {
	SuppressPrefix bool
	SuppressTag    bool
}

// Emitter is the C-family sdl.Emitter implementation.
type Emitter struct {
	Opts Options
}

// New returns a C-family emitter with the given name-formatting options.
func New(opts Options) *Emitter { return &Emitter{Opts: opts} }

func (e *Emitter) Language() string { return "c" }

func (e *Emitter) name(prefix, tag, ident string) string {
	var b strings.Builder
	if prefix != "" && !e.Opts.SuppressPrefix {
		b.WriteString(prefix)
	}
	if tag != "" && !e.Opts.SuppressTag {
		if b.Len() > 0 {
			b.WriteByte('$')
		}
		b.WriteString(tag)
		b.WriteByte('_')
	} else if b.Len() > 0 {
		b.WriteByte('$')
	}
	b.WriteString(ident)
	return b.String()
}

func (e *Emitter) HeaderStars(out io.Writer) sdl.Status {
	fmt.Fprintln(out, strings.Repeat("*", 72))
	return sdl.StatusOK
}

func (e *Emitter) HeaderCreated(out io.Writer, runtime string) sdl.Status {
	fmt.Fprintf(out, "** Created by OpenSDL at %s\n", runtime)
	return sdl.StatusOK
}

func (e *Emitter) HeaderFileInfo(out io.Writer, inputTime, inputPath string) sdl.Status {
	fmt.Fprintf(out, "** Source: %s (%s)\n", inputPath, inputTime)
	return sdl.StatusOK
}

func (e *Emitter) Comment(out io.Writer, text string, lineFlag, startFlag, middleFlag, endFlag bool) sdl.Status {
	if lineFlag {
		fmt.Fprintf(out, " /* %s */\n", text)
	} else {
		fmt.Fprintf(out, "/* %s */\n", text)
	}
	return sdl.StatusOK
}

func (e *Emitter) Module(out io.Writer, ctx *sdl.Context) sdl.Status {
	fmt.Fprintf(out, "#ifndef %s_H\n#define %s_H\n\n", strings.ToUpper(ctx.ModuleName), strings.ToUpper(ctx.ModuleName))
	if ctx.ModuleIdent != "" {
		fmt.Fprintf(out, "/* %s IDENT %s */\n", ctx.ModuleName, ctx.ModuleIdent)
	}
	return sdl.StatusOK
}

func (e *Emitter) ModuleEnd(out io.Writer, ctx *sdl.Context) sdl.Status {
	fmt.Fprintf(out, "\n#endif /* %s_H */\n", strings.ToUpper(ctx.ModuleName))
	return sdl.StatusOK
}

func (e *Emitter) Literal(out io.Writer, line string) sdl.Status {
	fmt.Fprintln(out, line)
	return sdl.StatusOK
}

func (e *Emitter) Declare(out io.Writer, d *sdl.Declare, ctx *sdl.Context) sdl.Status {
	fmt.Fprintf(out, "typedef %s %s;\n", cBaseTypeName(ctx, d.Underlying), e.name(d.Prefix, d.Tag, d.Name))
	return sdl.StatusOK
}

func (e *Emitter) Item(out io.Writer, it *sdl.Item, ctx *sdl.Context) sdl.Status {
	name := e.name(it.Prefix, it.Tag, it.Name)
	ty := cBaseTypeName(ctx, it.Type)
	dim := ""
	if it.Dimension != nil {
		dim = fmt.Sprintf("[%d]", it.Dimension.Count())
	}
	switch it.Storage {
	case sdl.StorageGlobal:
		fmt.Fprintf(out, "extern %s %s%s;\n", ty, name, dim)
	case sdl.StorageTypedef:
		fmt.Fprintf(out, "typedef %s %s%s;\n", ty, name, dim)
	default:
		fmt.Fprintf(out, "%s %s%s;\n", ty, name, dim)
	}
	return sdl.StatusOK
}

func (e *Emitter) Constant(out io.Writer, c *sdl.Constant, ctx *sdl.Context) sdl.Status {
	name := e.name(c.Prefix, c.Tag, c.Name)
	switch c.Kind {
	case sdl.ConstantString:
		fmt.Fprintf(out, "#define %s %q\n", name, c.String)
	default:
		fmt.Fprintf(out, "#define %s %s\n", name, formatRadix(c.Value, c.Radix))
	}
	return sdl.StatusOK
}

func (e *Emitter) Enumerate(out io.Writer, en *sdl.Enum, ctx *sdl.Context) sdl.Status {
	name := e.name(en.Prefix, en.Tag, en.Name)
	fmt.Fprintf(out, "typedef enum %s {\n", name)
	for i, m := range en.Members {
		comma := ","
		if i == len(en.Members)-1 {
			comma = ""
		}
		if m.ValueSet {
			fmt.Fprintf(out, "    %s = %d%s\n", e.name(en.Prefix, en.Tag, m.Name), m.Value, comma)
		} else {
			fmt.Fprintf(out, "    %s%s\n", e.name(en.Prefix, en.Tag, m.Name), comma)
		}
	}
	fmt.Fprintf(out, "} %s;\n", name)
	return sdl.StatusOK
}

func (e *Emitter) Entry(out io.Writer, en *sdl.Entry, ctx *sdl.Context) sdl.Status {
	ret := "void"
	if en.Returns != nil {
		ret = cBaseTypeName(ctx, en.Returns.Type)
	}
	name := en.Name
	if en.Alias != "" {
		name = en.Alias
	}
	var params []string
	for _, p := range en.Parameters {
		ty := cBaseTypeName(ctx, p.Type)
		if p.Passing == sdl.ByReference {
			ty += " *"
		} else {
			ty += " "
		}
		params = append(params, ty+p.Name)
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	fmt.Fprintf(out, "%s %s(%s);\n", ret, name, strings.Join(params, ", "))
	return sdl.StatusOK
}

func (e *Emitter) Aggregate(out io.Writer, node interface{}, kind sdl.NodeKind, ending bool, depth int, ctx *sdl.Context) sdl.Status {
	indent := strings.Repeat("    ", depth)
	switch kind {
	case sdl.NodeAggregate, sdl.NodeSubaggregate:
		agg, _ := node.(*sdl.Aggregate)
		if agg == nil {
			return sdl.StatusOK
		}
		if !ending {
			kw := "struct"
			if agg.AggType == sdl.AggUnion {
				kw = "union"
			}
			if depth == 0 {
				fmt.Fprintf(out, "typedef %s %s {\n", kw, e.name(agg.Prefix, agg.Tag, agg.Name))
			} else {
				fmt.Fprintf(out, "%s%s {\n", indent, kw)
			}
		} else {
			if depth == 0 {
				fmt.Fprintf(out, "} %s;\n", e.name(agg.Prefix, agg.Tag, agg.Name))
			} else if agg.Self != nil && agg.Self.Item != nil {
				fmt.Fprintf(out, "%s} %s;\n", indent, agg.Self.Item.Name)
			} else {
				fmt.Fprintf(out, "%s} %s;\n", indent, agg.Name)
			}
		}
	case sdl.NodeItem:
		m, _ := node.(*sdl.Member)
		if m == nil || m.Item == nil {
			return sdl.StatusOK
		}
		ty := cBaseTypeName(ctx, m.Item.Type)
		if m.Item.IsBitfield {
			fmt.Fprintf(out, "%s%s %s : %d;\n", indent, ty, m.Item.Name, m.BitLength)
		} else {
			dim := ""
			if m.Item.Dimension != nil {
				dim = fmt.Sprintf("[%d]", m.Item.Dimension.Count())
			}
			fmt.Fprintf(out, "%s%s %s%s;\n", indent, ty, m.Item.Name, dim)
		}
	case sdl.NodeComment:
		m, _ := node.(*sdl.Member)
		if m != nil {
			fmt.Fprintf(out, "%s/* %s */\n", indent, m.CommentText)
		}
	}
	return sdl.StatusOK
}

func formatRadix(v int64, r sdl.Radix) string {
	switch r {
	case sdl.RadixHex:
		return fmt.Sprintf("0x%X", v)
	case sdl.RadixOctal:
		return fmt.Sprintf("0%o", v)
	default:
		return fmt.Sprintf("%d", v)
	}
}

var cBaseNames = map[sdl.TypeID]string{
	sdl.TyByte: "signed char", sdl.TyWord: "short", sdl.TyLong: "int", sdl.TyQuad: "long long",
	sdl.TyChar: "char", sdl.TyCharVarying: "char *", sdl.TyBool: "int",
	sdl.TyBitfieldByte: "unsigned char", sdl.TyBitfieldWord: "unsigned short",
	sdl.TyBitfieldLong: "unsigned int", sdl.TyBitfieldQuad: "unsigned long long",
	sdl.TyAddr: "void *", sdl.TyPointer: "void *",
	sdl.TyTFloat: "float", sdl.TySFloat: "double", sdl.TyDecimal: "long long",
	sdl.TyVoid: "void", sdl.TyEntry: "void",
}

// cBaseTypeName resolves typeID to a C type spelling, recursing through
// DECLARE/ITEM aliases and naming AGGREGATE/ENUM by their own emitted
// name. The sign of typeID (where still present) carries signedness per
// sdl.Registry.IsUnsigned; the map itself is keyed by the normalized,
// always-positive base constant.
func cBaseTypeName(ctx *sdl.Context, typeID sdl.TypeID) string {
	norm := typeID
	if norm < 0 {
		norm = -norm
	}
	if n, ok := cBaseNames[norm]; ok {
		switch norm {
		case sdl.TyByte, sdl.TyWord, sdl.TyLong, sdl.TyQuad, sdl.TyOcta:
			if ctx.Registry.IsUnsigned(typeID) {
				return "unsigned " + n
			}
		}
		return n
	}
	if d := ctx.Registry.LookupDeclareByID(norm); d != nil {
		return cBaseTypeName(ctx, d.Underlying)
	}
	if agg := ctx.Registry.LookupAggregateByID(norm); agg != nil {
		return agg.Name
	}
	return "int"
}
