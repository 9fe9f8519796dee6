package sdl

import "strings"

// baseTag is the single canonical default-tag table (spec.md's Open
// Questions #2: the legacy source carried two copies of this table
// with different entry counts; this is the larger, newer one,
// enumerating every base type exactly once). See GLOSSARY "Tag".
var baseTag = map[TypeID]string{
	TyByte: "B", TyWord: "W", TyLong: "L", TyQuad: "Q", TyOcta: "O",

	TyTFloat: "T", TySFloat: "S", TyXFloat: "X",
	TyFFloat: "F", TyDFloat: "D", TyGFloat: "G", TyHFloat: "H",

	TyTFloatComplex: "TC", TySFloatComplex: "SC", TyXFloatComplex: "XC",
	TyFFloatComplex: "FC", TyDFloatComplex: "DC", TyGFloatComplex: "GC", TyHFloatComplex: "HC",

	TyDecimal: "P",

	TyBitfield: "V", TyBitfieldByte: "V", TyBitfieldWord: "V",
	TyBitfieldLong: "V", TyBitfieldQuad: "V", TyBitfieldOcta: "V",

	TyChar: "C", TyCharVarying: "C",

	TyAddr: "A", TyAddrL: "A", TyAddrQ: "A", TyAddrHW: "A", TyHWAddr: "A",

	TyPointer: "PS", TyPointerL: "PS", TyPointerQ: "PS", TyPointerHW: "PS",

	TyBool:        "",
	TyEnumElement: "N",
	TyEntry:       "E",
	TyVoid:        "Z",
}

const constantTag = "K"
const aggregateTag = "R"

// ResolveTag defaults the tag for a declaration with no explicit Tag
// option: spec.md §4.4 "Tag defaulting". If typeID refers to a DECLARE,
// ITEM or AGGREGATE it recurses through that record's own type id until
// a base type is reached, falling back to the ANY tag ("") if the
// chain dangles. Because Registry ids are dense and monotonically
// increasing, the underlying-type chain cannot cycle back to its
// starting id, so this recursion always terminates (spec.md §8
// "Tag defaulting terminates").
func (r *Registry) ResolveTag(typeID TypeID) string {
	id := normalizeSign(typeID)
	switch kindOf(id) {
	case KindBase:
		return baseTag[id]
	case KindDeclare:
		if d := r.declares[id]; d != nil {
			return r.ResolveTag(d.Underlying)
		}
	case KindItem:
		if it := r.items[id]; it != nil {
			return r.ResolveTag(it.Type)
		}
	case KindAggregate:
		return aggregateTag
	case KindEnum:
		return baseTag[TyEnumElement]
	}
	return ""
}

// NormalizeTag strips a trailing "_" from a user-supplied tag,
// recursively, and lower-cases the result when ident is all lower-case:
// spec.md §4.4 "A trailing _ in a user-supplied tag is stripped
// (recursively, until no trailing _ remains). When the declared
// identifier is all lower-case, the defaulted tag is lower-cased."
func NormalizeTag(tag string, ident string) string {
	for strings.HasSuffix(tag, "_") {
		tag = strings.TrimSuffix(tag, "_")
	}
	if isAllLower(ident) {
		tag = strings.ToLower(tag)
	}
	return tag
}

func isAllLower(s string) bool {
	seenLetter := false
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return false
		}
		if r >= 'a' && r <= 'z' {
			seenLetter = true
		}
	}
	return seenLetter
}
