// Package sdl implements the OpenSDL semantic model builder: symbol
// tables, declaration builders, the layout engine, the conditional
// state machine, and derived-constant generation. The lexer, parser,
// per-language emitters and CLI live in sibling packages and drive
// this package through Context.
package sdl

import "fmt"

// TypeID identifies any declared or base type. Base types occupy a
// fixed small negative-or-positive range (see the BaseType constants
// below); DECLARE, ITEM, AGGREGATE and ENUM ranges are disjoint dense
// bands allocated by Registry.
type TypeID int64

// Base type constants. Each base type's sign encodes its signedness on
// input to IsUnsigned: negative means signed, non-negative means
// unsigned. This mirrors the legacy encoding described in spec.md §4.1
// ("signedness bit encoded as the sign of the typeID on input").
const (
	TyByte TypeID = 1000 + iota
	TyWord
	TyLong
	TyQuad
	TyOcta

	TyTFloat // VAX F-float-class: T
	TySFloat
	TyXFloat
	TyFFloat
	TyDFloat
	TyGFloat
	TyHFloat

	TyTFloatComplex
	TySFloatComplex
	TyXFloatComplex
	TyFFloatComplex
	TyDFloatComplex
	TyGFloatComplex
	TyHFloatComplex

	TyDecimal

	TyBitfield       // unsized bit-field (defaults to byte container)
	TyBitfieldByte   // B
	TyBitfieldWord   // W
	TyBitfieldLong   // L
	TyBitfieldQuad   // Q
	TyBitfieldOcta   // O

	TyChar
	TyCharVarying

	TyAddr
	TyAddrL
	TyAddrQ
	TyAddrHW
	TyHWAddr

	TyPointer
	TyPointerL
	TyPointerQ
	TyPointerHW

	TyBool
	TyEnumElement
	TyEntry
	TyVoid
)

// Disjoint dense ranges for user-allocated records. Each range starts
// far enough apart that a typeID's range membership is a single
// comparison (Registry.kindOf).
const (
	declareRangeStart   TypeID = 10000
	itemRangeStart      TypeID = 20000
	aggregateRangeStart TypeID = 30000
	enumRangeStart      TypeID = 40000
	rangeWidth          TypeID = 10000
)

// RecordKind classifies a TypeID by which range it falls in.
type RecordKind int

const (
	KindBase RecordKind = iota
	KindDeclare
	KindItem
	KindAggregate
	KindEnum
	KindUnknown
)

func kindOf(id TypeID) RecordKind {
	switch {
	case id >= declareRangeStart && id < declareRangeStart+rangeWidth:
		return KindDeclare
	case id >= itemRangeStart && id < itemRangeStart+rangeWidth:
		return KindItem
	case id >= aggregateRangeStart && id < aggregateRangeStart+rangeWidth:
		return KindAggregate
	case id >= enumRangeStart && id < enumRangeStart+rangeWidth:
		return KindEnum
	case id > 0 && id < declareRangeStart:
		return KindBase
	default:
		return KindUnknown
	}
}

// baseSizeTable holds the machine size, in bytes, of each base type for
// a given word size (32 or 64). Most entries are word-size independent;
// ADDR/POINTER and the unsized BITFIELD vary.
type baseSizeEntry struct {
	size32, size64 int64
}

var baseSizes = map[TypeID]baseSizeEntry{
	TyByte:  {1, 1},
	TyWord:  {2, 2},
	TyLong:  {4, 4},
	TyQuad:  {8, 8},
	TyOcta:  {16, 16},

	TyTFloat: {4, 4},
	TySFloat: {8, 8},
	TyXFloat: {16, 16},
	TyFFloat: {4, 4},
	TyDFloat: {8, 8},
	TyGFloat: {8, 8},
	TyHFloat: {16, 16},

	TyTFloatComplex: {8, 8},
	TySFloatComplex: {16, 16},
	TyXFloatComplex: {32, 32},
	TyFFloatComplex: {8, 8},
	TyDFloatComplex: {16, 16},
	TyGFloatComplex: {16, 16},
	TyHFloatComplex: {32, 32},

	TyBitfield:     {1, 1},
	TyBitfieldByte: {1, 1},
	TyBitfieldWord: {2, 2},
	TyBitfieldLong: {4, 4},
	TyBitfieldQuad: {8, 8},
	TyBitfieldOcta: {16, 16},

	TyChar: {1, 1},

	TyAddr:   {4, 8},
	TyAddrL:  {4, 4},
	TyAddrQ:  {8, 8},
	TyAddrHW: {2, 2},
	TyHWAddr: {2, 2},

	TyPointer:   {4, 8},
	TyPointerL:  {4, 4},
	TyPointerQ:  {8, 8},
	TyPointerHW: {2, 2},

	TyBool:        {1, 1},
	TyEnumElement: {4, 4},
	TyEntry:       {0, 0},
	TyVoid:        {0, 0},
}

// addressTypes is the closed set recognized by IsAddress.
var addressTypes = map[TypeID]bool{
	TyAddr: true, TyAddrL: true, TyAddrQ: true, TyAddrHW: true, TyHWAddr: true,
	TyPointer: true, TyPointerL: true, TyPointerQ: true, TyPointerHW: true,
}

// unsignedBase is the closed set of base types that are inherently
// unsigned regardless of the sign-encoding convention (addresses,
// pointers, bit-fields, bool, char).
var unsignedBase = map[TypeID]bool{
	TyAddr: true, TyAddrL: true, TyAddrQ: true, TyAddrHW: true, TyHWAddr: true,
	TyPointer: true, TyPointerL: true, TyPointerQ: true, TyPointerHW: true,
	TyBitfield: true, TyBitfieldByte: true, TyBitfieldWord: true,
	TyBitfieldLong: true, TyBitfieldQuad: true, TyBitfieldOcta: true,
	TyBool: true, TyChar: true, TyCharVarying: true,
}

// Registry owns the four dense, disjoint identifier ranges (DECLARE,
// ITEM, AGGREGATE, ENUM) and resolves any TypeID back to its record.
// Identifiers are never reused: each range keeps a monotonically
// increasing nextID.
type Registry struct {
	wordSize int // 32 or 64

	nextDeclare   TypeID
	nextItem      TypeID
	nextAggregate TypeID
	nextEnum      TypeID

	declares   map[TypeID]*Declare
	items      map[TypeID]*Item
	aggregates map[TypeID]*Aggregate
	enums      map[TypeID]*Enum

	declareByName   map[string]*Declare
	itemByName      map[string]*Item
	aggregateByName map[string]*Aggregate
	enumByName      map[string]*Enum
}

// NewRegistry builds an empty registry for the given word size (32 or 64).
func NewRegistry(wordSize int) *Registry {
	if wordSize != 32 && wordSize != 64 {
		wordSize = 64
	}
	return &Registry{
		wordSize:        wordSize,
		nextDeclare:     declareRangeStart,
		nextItem:        itemRangeStart,
		nextAggregate:   aggregateRangeStart,
		nextEnum:        enumRangeStart,
		declares:        make(map[TypeID]*Declare),
		items:           make(map[TypeID]*Item),
		aggregates:      make(map[TypeID]*Aggregate),
		enums:           make(map[TypeID]*Enum),
		declareByName:   make(map[string]*Declare),
		itemByName:      make(map[string]*Item),
		aggregateByName: make(map[string]*Aggregate),
		enumByName:      make(map[string]*Enum),
	}
}

// allocDeclare mints the next DECLARE id and links the record by id and name.
func (r *Registry) allocDeclare(d *Declare) {
	d.ID = r.nextDeclare
	r.nextDeclare++
	r.declares[d.ID] = d
	r.declareByName[d.Name] = d
}

func (r *Registry) allocItem(it *Item) {
	it.ID = r.nextItem
	r.nextItem++
	r.items[it.ID] = it
	r.itemByName[it.Name] = it
}

func (r *Registry) allocAggregate(a *Aggregate) {
	a.ID = r.nextAggregate
	r.nextAggregate++
	r.aggregates[a.ID] = a
	r.aggregateByName[a.Name] = a
}

func (r *Registry) allocEnum(e *Enum) {
	e.ID = r.nextEnum
	r.nextEnum++
	r.enums[e.ID] = e
	r.enumByName[e.Name] = e
}

// LookupDeclare returns the named DECLARE, or nil if absent.
func (r *Registry) LookupDeclare(name string) *Declare { return r.declareByName[name] }

// LookupDeclareByID returns the DECLARE with the given id, or nil.
func (r *Registry) LookupDeclareByID(id TypeID) *Declare { return r.declares[id] }

// LookupItem returns the named ITEM, or nil if absent.
func (r *Registry) LookupItem(name string) *Item { return r.itemByName[name] }

// LookupAggregateByID returns the AGGREGATE with the given id, or nil.
func (r *Registry) LookupAggregateByID(id TypeID) *Aggregate { return r.aggregates[id] }

// LookupAggregate returns the named AGGREGATE, or nil if absent.
func (r *Registry) LookupAggregate(name string) *Aggregate { return r.aggregateByName[name] }

// LookupEnum returns the named ENUM, or nil if absent.
func (r *Registry) LookupEnum(name string) *Enum { return r.enumByName[name] }

// SizeOf returns the storage size, in bytes, of typeID. Base types
// consult the word-size table; DECLARE/ITEM/AGGREGATE/ENUM dereference
// to their own stored size.
func (r *Registry) SizeOf(typeID TypeID) int64 {
	id := normalizeSign(typeID)
	switch kindOf(id) {
	case KindBase:
		e, ok := baseSizes[id]
		if !ok {
			return 0
		}
		if r.wordSize == 32 {
			return e.size32
		}
		return e.size64
	case KindDeclare:
		if d := r.declares[id]; d != nil {
			return d.Size
		}
	case KindItem:
		if it := r.items[id]; it != nil {
			return it.Size
		}
	case KindAggregate:
		if a := r.aggregates[id]; a != nil {
			return a.Size
		}
	case KindEnum:
		if e := r.enums[id]; e != nil {
			return 4
		}
	}
	return 0
}

// normalizeSign returns the absolute value of a typeID: the sign bit is
// only a carrier for signedness on base-type input and is not part of
// the identifier itself once consumed.
func normalizeSign(id TypeID) TypeID {
	if id < 0 {
		return -id
	}
	return id
}

// IsUnsigned reports whether typeRef denotes an unsigned type. For base
// integer types the sign of the incoming TypeID is the signedness bit
// (negative ⇒ signed). typeRef is passed by value and is not normalized
// for the caller; code that needs the bare identifier strips the sign
// itself with normalizeSign, as IsAddress and Describe do.
func (r *Registry) IsUnsigned(typeRef TypeID) bool {
	signed := typeRef < 0
	id := normalizeSign(typeRef)
	switch kindOf(id) {
	case KindBase:
		if signed {
			return false
		}
		return unsignedBase[id] || !signedBase[id]
	case KindDeclare:
		if d := r.declares[id]; d != nil {
			return d.Unsigned
		}
	case KindItem:
		if it := r.items[id]; it != nil {
			return r.IsUnsigned(it.Type)
		}
	case KindAggregate:
		return true
	case KindEnum:
		return true
	}
	return false
}

// signedBase is the closed set of base types that default to signed
// when no explicit sign bit is present on the incoming TypeID (the
// integer and floating families; everything else in unsignedBase wins
// regardless).
var signedBase = map[TypeID]bool{
	TyByte: true, TyWord: true, TyLong: true, TyQuad: true, TyOcta: true,
	TyTFloat: true, TySFloat: true, TyXFloat: true, TyFFloat: true,
	TyDFloat: true, TyGFloat: true, TyHFloat: true,
	TyTFloatComplex: true, TySFloatComplex: true, TyXFloatComplex: true,
	TyFFloatComplex: true, TyDFloatComplex: true, TyGFloatComplex: true, TyHFloatComplex: true,
	TyDecimal: true,
}

// IsAddress reports whether typeID is one of the pointer/address base
// types named in spec.md §4.1.
func (r *Registry) IsAddress(typeID TypeID) bool {
	return addressTypes[normalizeSign(typeID)]
}

// Describe renders a typeID as a short debug string such as
// "declare flags_t (id=10000)".
func (r *Registry) Describe(id TypeID) string {
	nid := normalizeSign(id)
	switch kindOf(nid) {
	case KindBase:
		return fmt.Sprintf("base %s (id=%d)", baseTypeName(nid), nid)
	case KindDeclare:
		if d := r.declares[nid]; d != nil {
			return fmt.Sprintf("declare %s (id=%d)", d.Name, nid)
		}
	case KindItem:
		if it := r.items[nid]; it != nil {
			return fmt.Sprintf("item %s (id=%d)", it.Name, nid)
		}
	case KindAggregate:
		if a := r.aggregates[nid]; a != nil {
			return fmt.Sprintf("aggregate %s (id=%d)", a.Name, nid)
		}
	case KindEnum:
		if e := r.enums[nid]; e != nil {
			return fmt.Sprintf("enum %s (id=%d)", e.Name, nid)
		}
	}
	return fmt.Sprintf("unknown (id=%d)", id)
}

var baseTypeNames = map[TypeID]string{
	TyByte: "BYTE", TyWord: "WORD", TyLong: "LONGWORD", TyQuad: "QUADWORD", TyOcta: "OCTAWORD",
	TyTFloat: "T_FLOATING", TySFloat: "S_FLOATING", TyXFloat: "X_FLOATING",
	TyFFloat: "F_FLOATING", TyDFloat: "D_FLOATING", TyGFloat: "G_FLOATING", TyHFloat: "H_FLOATING",
	TyDecimal: "DECIMAL", TyBitfield: "BITFIELD", TyChar: "CHAR", TyCharVarying: "CHAR_VARYING",
	TyAddr: "ADDRESS", TyPointer: "POINTER", TyBool: "BOOLEAN", TyEnumElement: "ENUM_ELEMENT",
	TyEntry: "ENTRY", TyVoid: "VOID",
}

func baseTypeName(id TypeID) string {
	if n, ok := baseTypeNames[id]; ok {
		return n
	}
	return "ANY"
}
