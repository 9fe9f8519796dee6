package sdl

// OptionKind is the closed set of recognized option-buffer entry kinds:
// spec.md §4.2.
type OptionKind int

const (
	OptAlign OptionKind = iota
	OptNoAlign
	OptBaseAlign
	OptPrefix
	OptTag
	OptMarker
	OptBased
	OptOrigin
	OptCounter
	OptTypeName
	OptIncrement
	OptRadix
	OptEnumerate
	OptTypedef
	OptCommon
	OptGlobal
	OptFill
	OptMask
	OptSigned
	OptLength
	OptSubType
	OptDimension
	OptAlias
	OptLinkage
	OptVariable
	OptReturnsType
	OptReturnsNamed
	OptIn
	OptOut
	OptNamed
	OptDefault
	OptOptional
	OptList
)

// Option is one entry in the option buffer: spec.md §4.2 "{ optionKind,
// value:int64, string:string? }".
type Option struct {
	Kind   OptionKind
	Value  int64
	String string
	HasStr bool
}

// OptionBuffer is the transient ordered sequence of Options accumulated
// between a declaration's opening and its completion. At most one
// declaration is in construction at a time, so a single buffer (owned
// by Context) suffices for the whole translation run.
type OptionBuffer struct {
	entries []Option
}

// Append adds an entry to the end of the buffer. Parser actions call
// this; the next declaration completer drains it via Take/Reset.
func (b *OptionBuffer) Append(opt Option) {
	b.entries = append(b.entries, opt)
}

// Entries returns the buffer's current contents without draining it.
func (b *OptionBuffer) Entries() []Option {
	return b.entries
}

// Len reports how many entries are currently buffered.
func (b *OptionBuffer) Len() int {
	return len(b.entries)
}

// Reset drains the buffer, resetting its length to zero. Every option
// not explicitly consumed by a completer is implicitly discarded here
// (Go's GC retires the backing string/value — there is no separate
// "free if ignored" step as in the legacy C source).
func (b *OptionBuffer) Reset() {
	b.entries = b.entries[:0]
}

// Take returns the buffered entries and resets the buffer in one step,
// the shape every declaration completer actually wants: drain exactly
// once, then start the next declaration with an empty buffer.
func (b *OptionBuffer) Take() []Option {
	out := make([]Option, len(b.entries))
	copy(out, b.entries)
	b.Reset()
	return out
}
