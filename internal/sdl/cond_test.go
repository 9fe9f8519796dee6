package sdl

import "testing"

func TestCondMachineIfSymbolElseEnd(t *testing.T) {
	m := NewCondMachine(2)

	if err := m.Apply(DirIfSymbol, 0, true, nil); err != nil {
		t.Fatalf("IFSYMBOL(false): %v", err)
	}
	if m.ProcessingEnabled {
		t.Errorf("ProcessingEnabled = true after IFSYMBOL with value 0, want false")
	}

	if err := m.Apply(DirElse, 0, true, nil); err != nil {
		t.Fatalf("ELSE: %v", err)
	}
	if !m.ProcessingEnabled {
		t.Errorf("ProcessingEnabled = false after ELSE, want true (toggled)")
	}

	if err := m.Apply(DirEndIfSymbol, 0, true, nil); err != nil {
		t.Fatalf("END_IFSYMBOL: %v", err)
	}
	if m.Depth() != 0 {
		t.Errorf("Depth() = %d after END_IFSYMBOL, want 0", m.Depth())
	}
	if !m.ProcessingEnabled {
		t.Errorf("ProcessingEnabled = false after END_IFSYMBOL, want true (always restored)")
	}
}

func TestCondMachineIfSymbolUnknownSymbol(t *testing.T) {
	m := NewCondMachine(1)
	if err := m.Apply(DirIfSymbol, 0, false, nil); err != ErrSymNotDef {
		t.Errorf("IFSYMBOL with unknown symbol = %v, want ErrSymNotDef", err)
	}
}

func TestCondMachineIfLanguageSubset(t *testing.T) {
	m := NewCondMachine(3)
	if err := m.Apply(DirIfLanguage, 0, true, []int{1}); err != nil {
		t.Fatalf("IFLANGUAGE: %v", err)
	}
	want := []bool{false, true, false}
	for i, got := range m.LangEnabled {
		if got != want[i] {
			t.Errorf("LangEnabled[%d] = %v, want %v", i, got, want[i])
		}
	}

	if err := m.Apply(DirElse, 0, true, nil); err != nil {
		t.Fatalf("ELSE: %v", err)
	}
	wantElse := []bool{true, false, true}
	for i, got := range m.LangEnabled {
		if got != wantElse[i] {
			t.Errorf("LangEnabled[%d] after ELSE = %v, want %v", i, got, wantElse[i])
		}
	}

	if err := m.Apply(DirEndIfLanguage, 0, true, nil); err != nil {
		t.Fatalf("END_IFLANGUAGE: %v", err)
	}
	for i, got := range m.LangEnabled {
		if !got {
			t.Errorf("LangEnabled[%d] after END_IFLANGUAGE = false, want true (all re-enabled)", i)
		}
	}
}

func TestCondMachineInvalidTransition(t *testing.T) {
	m := NewCondMachine(1)
	if err := m.Apply(DirElse, 0, true, nil); err != ErrInvCondState {
		t.Errorf("ELSE with no open scope = %v, want ErrInvCondState", err)
	}
	if err := m.Apply(DirEndIfSymbol, 0, true, nil); err != ErrInvCondState {
		t.Errorf("END_IFSYMBOL with no open scope = %v, want ErrInvCondState", err)
	}
}

func TestCondMachineNestedIfSymbolInsideIfLanguage(t *testing.T) {
	m := NewCondMachine(1)
	if err := m.Apply(DirIfLanguage, 0, true, []int{0}); err != nil {
		t.Fatalf("IFLANGUAGE: %v", err)
	}
	if err := m.Apply(DirIfSymbol, 1, true, nil); err != nil {
		t.Fatalf("nested IFSYMBOL: %v", err)
	}
	if m.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", m.Depth())
	}
}
