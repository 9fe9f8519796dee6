package sdl

// CondState is one entry of the conditional-compilation stack: spec.md §4.3.
type CondState int

const (
	CondNone CondState = iota
	CondIfLang
	CondIfSymb
	CondElseIf
	CondElse
)

// condFrame is one pushed scope: its state, plus the processingEnabled
// flag (IFSYMBOL) or the language-enable vector (IFLANGUAGE) saved at
// push time. Apply records the saved values but does not read them
// back: ELSE inverts the current values and END restores the defaults.
type condFrame struct {
	state        CondState
	savedEnabled bool
	savedLangs   []bool
}

// CondMachine is the stack of per-scope conditional states gating
// whether declarations are processed and which output languages are
// currently enabled: spec.md §4.3. The complete transition table is
// reproduced in Apply's doc comment below; any combination not
// listed there is INVCONDST.
type CondMachine struct {
	stack []condFrame

	// ProcessingEnabled gates all symbol creation while true.
	ProcessingEnabled bool

	// LangEnabled is the per-output-language enable vector, indexed by
	// the caller's own language-name table (Context owns the mapping).
	LangEnabled []bool
}

// NewCondMachine returns a machine with processing enabled and every
// language enabled, matching the state at MODULE start.
func NewCondMachine(numLanguages int) *CondMachine {
	langs := make([]bool, numLanguages)
	for i := range langs {
		langs[i] = true
	}
	return &CondMachine{ProcessingEnabled: true, LangEnabled: langs}
}

// Depth returns the current conditional-nesting depth. A successful run
// ends with Depth() == 0 at EOF: spec.md §8.
func (m *CondMachine) Depth() int { return len(m.stack) }

func (m *CondMachine) top() (condFrame, bool) {
	if len(m.stack) == 0 {
		return condFrame{}, false
	}
	return m.stack[len(m.stack)-1], true
}

// Directive identifies which conditional directive the parser just saw.
type Directive int

const (
	DirIfSymbol Directive = iota
	DirElseIfSymbol
	DirIfLanguage
	DirElse
	DirEndIfSymbol
	DirEndIfLanguage
)

// Apply runs one directive through the transition table in spec.md §4.3:
//
//	Current state        Directive          New state   Side effect
//	None/IfLang/Else      IFSYMBOL sym       push IfSymb  set ProcessingEnabled from sym's value
//	None/IfLang/IfSymb/
//	  ElseIf/Else         IFLANGUAGE L..L    push IfLang  disable all languages, enable listed ones
//	IfSymb                ELSE_IFSYMBOL sym  -> ElseIf     same symbol-value semantics
//	IfLang                ELSE               -> Else       invert LangEnabled
//	IfSymb/ElseIf          ELSE               -> Else       toggle ProcessingEnabled
//	IfSymb/ElseIf/Else     END_IFSYMBOL        pop          ProcessingEnabled <- true
//	IfLang/Else            END_IFLANGUAGE      pop          enable all languages
//
// Any other combination returns ErrInvCondState. symValue/symKnown carry
// the IFSYMBOL/ELSE_IFSYMBOL symbol's predefined value (0 ⇒ false,
// non-zero ⇒ true); symKnown false means the symbol was never
// predefined on the CLI, which is ErrSymNotDef.
func (m *CondMachine) Apply(dir Directive, symValue int64, symKnown bool, langs []int) error {
	cur, hasCur := m.top()
	curState := CondNone
	if hasCur {
		curState = cur.state
	}

	switch dir {
	case DirIfSymbol:
		switch curState {
		case CondNone, CondIfLang, CondElse:
			if !symKnown {
				return ErrSymNotDef
			}
			m.stack = append(m.stack, condFrame{state: CondIfSymb, savedEnabled: m.ProcessingEnabled})
			m.ProcessingEnabled = symValue != 0
			return nil
		}
		return ErrInvCondState

	case DirIfLanguage:
		switch curState {
		case CondNone, CondIfLang, CondIfSymb, CondElseIf, CondElse:
			saved := append([]bool(nil), m.LangEnabled...)
			m.stack = append(m.stack, condFrame{state: CondIfLang, savedLangs: saved})
			for i := range m.LangEnabled {
				m.LangEnabled[i] = false
			}
			for _, li := range langs {
				if li >= 0 && li < len(m.LangEnabled) {
					m.LangEnabled[li] = true
				}
			}
			return nil
		}
		return ErrInvCondState

	case DirElseIfSymbol:
		if curState != CondIfSymb {
			return ErrInvCondState
		}
		if !symKnown {
			return ErrSymNotDef
		}
		m.stack[len(m.stack)-1].state = CondElseIf
		m.ProcessingEnabled = symValue != 0
		return nil

	case DirElse:
		switch curState {
		case CondIfLang:
			m.stack[len(m.stack)-1].state = CondElse
			for i := range m.LangEnabled {
				m.LangEnabled[i] = !m.LangEnabled[i]
			}
			return nil
		case CondIfSymb, CondElseIf:
			m.stack[len(m.stack)-1].state = CondElse
			m.ProcessingEnabled = !m.ProcessingEnabled
			return nil
		}
		return ErrInvCondState

	case DirEndIfSymbol:
		switch curState {
		case CondIfSymb, CondElseIf, CondElse:
			m.stack = m.stack[:len(m.stack)-1]
			m.ProcessingEnabled = true
			return nil
		}
		return ErrInvCondState

	case DirEndIfLanguage:
		switch curState {
		case CondIfLang, CondElse:
			frame := m.stack[len(m.stack)-1]
			m.stack = m.stack[:len(m.stack)-1]
			_ = frame
			for i := range m.LangEnabled {
				m.LangEnabled[i] = true
			}
			return nil
		}
		return ErrInvCondState
	}

	return ErrInvCondState
}
