package sdl

import "strings"

// constantOptions is the parsed-out shape of a single CONSTANT/ENUM
// statement's option buffer, isolated from the comma-list walk so the
// two concerns (option interpretation vs. list splitting) stay
// independent, per spec.md §4.4.
type constantOptions struct {
	prefix    string
	tag       string
	typeName  string
	radix     Radix
	increment int64
	hasIncr   bool
	counter   string
	hasCounter bool
	enumerate bool
	comment   string
}

func parseConstantOptions(entries []Option) constantOptions {
	var co constantOptions
	for _, opt := range entries {
		switch opt.Kind {
		case OptPrefix:
			co.prefix = opt.String
		case OptTag:
			co.tag = opt.String
		case OptTypeName:
			co.typeName = opt.String
		case OptRadix:
			co.radix = Radix(opt.Value)
		case OptIncrement:
			co.increment = opt.Value
			co.hasIncr = true
		case OptCounter:
			co.counter = opt.String
			co.hasCounter = true
		case OptEnumerate:
			co.enumerate = true
		}
	}
	return co
}

// CompleteConstant is the single-call completer for a CONSTANT/ENUM
// statement: spec.md §4.4 "For constants and enumerations, a single
// call performs both steps because a CONSTANT statement may declare a
// comma-separated list and/or alternate between CONSTANT and ENUM shape
// based on the Enumerate option."
//
// idList is the raw identifier text as written by the programmer,
// which may be a single name or a comma/newline-separated list with
// embedded comments; value/str/kind is the EQUALS clause (for ENUM
// members, value is the first member's value and each later member
// adds the increment, one by default, to the previous one).
func (c *Context) CompleteConstant(idList string, kind ConstantKind, value int64, str string, loc SourceLoc) error {
	co := parseConstantOptions(c.Options.Take())
	names := splitConstantList(idList)
	if len(names) == 0 {
		return nil
	}

	if co.enumerate {
		e := &Enum{Name: names[0], Prefix: co.prefix}
		e.Loc = loc
		c.Registry.allocEnum(e)
		e.Tag = resolveEnumTag(c, e, co)
		cur := value
		for i, name := range names {
			set := i == 0 || co.hasIncr
			e.Members = append(e.Members, &EnumMember{Name: name, Value: cur, ValueSet: set})
			cur += incrementOrOne(co)
			if co.hasCounter {
				l := c.AllocLocal(co.counter, loc)
				SetLocal(l, cur)
			}
		}
		c.emitEnum(e)
		return nil
	}

	cur := value
	for _, name := range names {
		cn := &Constant{
			Name:     name,
			Prefix:   co.prefix,
			TypeName: co.typeName,
			Radix:    co.radix,
			Kind:     kind,
			Value:    cur,
			String:   str,
			Comment:  co.comment,
		}
		cn.Loc = loc
		if co.tag == "" {
			cn.Tag = NormalizeTag(constantTag, name)
		} else {
			cn.Tag = NormalizeTag(co.tag, name)
		}
		if kind == ConstantNumeric {
			cn.Size = 4
		}
		c.Constants = append(c.Constants, cn)
		c.emitConstant(cn)
		if co.hasIncr {
			cur += co.increment
			if co.hasCounter {
				l := c.AllocLocal(co.counter, loc)
				SetLocal(l, cur)
			}
		}
	}
	return nil
}

func incrementOrOne(co constantOptions) int64 {
	if co.hasIncr {
		return co.increment
	}
	return 1
}

func resolveEnumTag(c *Context, e *Enum, co constantOptions) string {
	if co.tag != "" {
		return NormalizeTag(co.tag, e.Name)
	}
	return NormalizeTag(baseTag[TyEnumElement], e.Name)
}

// splitConstantList walks a CONSTANT/ENUM identifier list, splitting on
// commas and newlines while honoring embedded /* ... */ comments: spec.md
// §4.4. A trailing "{ ... }" brace marks a comment that is stripped
// rather than treated as part of any name.
func splitConstantList(s string) []string {
	var names []string
	var cur strings.Builder
	i := 0
	n := len(s)
	flush := func() {
		name := strings.TrimSpace(cur.String())
		if name != "" {
			names = append(names, name)
		}
		cur.Reset()
	}
	for i < n {
		switch {
		case s[i] == '/' && i+1 < n && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				i = n
				continue
			}
			i = i + 2 + end + 2
		case s[i] == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				i = n
				continue
			}
			i = i + 1 + end + 1
		case s[i] == ',' || s[i] == '\n':
			flush()
			i++
		default:
			cur.WriteByte(s[i])
			i++
		}
	}
	flush()
	return names
}
