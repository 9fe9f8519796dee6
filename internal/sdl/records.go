package sdl

// SourceLoc is a source-file position, threaded through every record
// for diagnostics and listing output.
type SourceLoc struct {
	Line int
	Col  int
}

// Record is the common header every identifier-bearing record carries:
// spec.md §3 "every allocated record carries { id, parent?, source-
// location, queue-links }". Parent is an opaque handle into whichever
// table owns the parent (only Aggregate members use it; Go's GC makes
// "queue-links" unnecessary, so Record only tracks what call sites
// actually read back).
type Record struct {
	ID  TypeID
	Loc SourceLoc
}

// Declare is a DECLARE type alias: spec.md §3.
type Declare struct {
	Record
	Name      string
	TypeID    TypeID
	Prefix    string
	Tag       string
	Underlying TypeID
	Size      int64
	Unsigned  bool
}

// StorageClass is the storage class an ITEM or AGGREGATE declares.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageCommon
	StorageGlobal
	StorageTypedef
)

// Item is a named scalar declaration at module scope: spec.md §3.
type Item struct {
	Record
	Name         string
	TypeID       TypeID
	Prefix       string
	Tag          string
	Type         TypeID
	Size         int64
	Alignment    AlignSpec
	Dimension    *Dimension
	LBound       int64
	HBound       int64
	Storage      StorageClass
	AddrSubType  TypeID
	HasAddrSub   bool
	Precision    int64
	Scale        int64
	Length       int64
}

// Dimension records an explicit array bound: spec.md §3 "dimension?".
type Dimension struct {
	LBound int64
	HBound int64
}

// Count returns the number of elements the dimension spans.
func (d *Dimension) Count() int64 {
	if d == nil {
		return 1
	}
	return d.HBound - d.LBound + 1
}

// ConstantKind distinguishes numeric from string constants.
type ConstantKind int

const (
	ConstantNumeric ConstantKind = iota
	ConstantString
)

// Constant is a CONSTANT declaration: spec.md §3.
type Constant struct {
	Record
	Name     string
	Prefix   string
	Tag      string
	TypeName string
	Radix    Radix
	Kind     ConstantKind
	Value    int64
	String   string
	Size     int64
	Comment  string
}

// Radix selects the emitted numeric base for a CONSTANT.
type Radix int

const (
	RadixDecimal Radix = iota
	RadixHex
	RadixOctal
)

// Enum is an ENUM declaration: spec.md §3.
type Enum struct {
	Record
	Name    string
	Prefix  string
	Tag     string
	TypeDef TypeID
	Members []*EnumMember
}

// EnumMember is one value of an Enum.
type EnumMember struct {
	Name     string
	Value    int64
	ValueSet bool // true iff Value is non-default relative to the previous member
}

// AggregateType distinguishes STRUCTURE from UNION.
type AggregateType int

const (
	AggStruct AggregateType = iota
	AggUnion
)

// Origin records an AGGREGATE's ORIGIN option: the member whose offset
// becomes the aggregate's effective address.
type Origin struct {
	ID        string // the named member id to search for
	MemberRef *Member // resolved lazily; set at most once
}

// Aggregate is a STRUCTURE or UNION, top-level or nested: spec.md §3.
type Aggregate struct {
	Record
	AggType           AggregateType
	Type              TypeID // the aggregate's own synthesized type id
	Name              string
	Prefix            string
	Tag               string
	Marker            string
	BasedPtrName      string
	Origin            *Origin
	Alignment         AlignSpec
	AlignmentPresent  bool
	ParentAlignment   AlignSpec
	Dimension         *Dimension
	CurrentOffset     int64
	CurrentBitOffset  int64
	Size              int64
	Members           []*Member
	Storage           StorageClass
	Fill              bool
	Unsigned          bool

	// Subaggregate-only fields.
	Parent *Aggregate // enclosing aggregate, nil for a top-level aggregate
	Self   *Member    // the member in Parent.Members that embeds this subaggregate
}

// MemberKind is the variant tag of the polymorphic Member sum type:
// spec.md §3 "MEMBER (polymorphic — variant over {ITEM, SUBAGGREGATE,
// COMMENT})".
type MemberKind int

const (
	MemberItem MemberKind = iota
	MemberSubaggregate
	MemberComment
)

// Member is one entry in an Aggregate's member list. Exactly one of
// Item/Subaggregate/CommentText is meaningful, selected by Kind — this
// models the "tagged sum" design note rather than a union-with-
// discriminant.
type Member struct {
	Kind        MemberKind
	Offset      int64
	BitOffset   int64
	Type        TypeID
	Loc         SourceLoc
	Top         bool // true iff this is a direct child of the enclosing Aggregate

	Item        *MemberItem
	Subaggregate *Aggregate
	CommentText string

	// MemberDimension carries a DIMENSION option attached directly to a
	// subaggregate-kind member (an array of embedded structs/unions);
	// scalar members instead carry their dimension on Item.Dimension.
	MemberDimension *Dimension

	// Bit-field bookkeeping (meaningful only when Item != nil && Item.IsBitfield).
	BitLength     int64
	SizedBitfield bool
	Filler        bool
}

// MemberItem is the scalar-item payload of a Member when Kind ==
// MemberItem. It is distinct from Item (the module-scope named
// declaration) because aggregate members never go through the
// Registry's ITEM range — they are only ever reachable through their
// owning Aggregate.
type MemberItem struct {
	Name        string
	Prefix      string
	Tag         string
	Type        TypeID
	Size        int64
	Alignment   AlignSpec
	Dimension   *Dimension
	Precision   int64
	Scale       int64
	Length      int64
	Mask        bool
	IsBitfield  bool
}

// EffectiveStride is the byte distance the next sibling member's offset
// must advance by, per spec.md §4.5 "End-offset computation".
func (mi *MemberItem) EffectiveStride() int64 {
	lengthFactor := int64(1)
	overhead := int64(0)
	switch {
	case mi.Type == TyChar || mi.Type == TyCharVarying:
		lengthFactor = mi.Length
		if mi.Type == TyCharVarying {
			overhead = 2
		}
	case mi.Type == TyDecimal:
		lengthFactor = mi.Precision
		overhead = 1
	}
	dim := int64(1)
	if mi.Dimension != nil {
		dim = mi.Dimension.Count()
	}
	return mi.Size*lengthFactor*dim + overhead
}

// AlignSpec is a member or aggregate's alignment directive.
type AlignSpecKind int

const (
	AlignInherit AlignSpecKind = iota // no directive: inherit from parent
	AlignNone                        // NOALIGN
	AlignNatural                     // ALIGN (pad to own size)
	AlignExplicit                    // ALIGN(n): pad to power-of-two n
)

type AlignSpec struct {
	Kind  AlignSpecKind
	Value int64 // meaningful only when Kind == AlignExplicit
}

// Entry is an ENTRY declaration: spec.md §3.
type Entry struct {
	Record
	Name       string
	Alias      string
	Linkage    string
	TypeName   string
	Variable   bool
	Returns    *EntryReturn
	Parameters []*Parameter
}

// EntryReturn describes an ENTRY's RETURNS clause.
type EntryReturn struct {
	Type     TypeID
	Unsigned bool
	Name     string
}

// PassingMechanism distinguishes BY VALUE from BY REFERENCE parameters.
type PassingMechanism int

const (
	ByValue PassingMechanism = iota
	ByReference
)

// Parameter is one ENTRY parameter: spec.md §3.
type Parameter struct {
	Name      string
	Type      TypeID
	TypeName  string
	Passing   PassingMechanism
	In        bool
	Out       bool
	Optional  bool
	List      bool
	Dimension *Dimension
	Bound     int64
	Default   bool
	DefaultValue int64
}

// Local is a LOCAL counter variable: spec.md §3.
type Local struct {
	Record
	Name  string
	Value int64
}
