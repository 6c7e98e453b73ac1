// Package checkout owns the checkout step gate and the per-buyer checkout
// session it lives in. The gate is a mutual-exclusion token over the named
// checkout steps: while one step is being edited every other step, the cart
// controls and order placement are rejected.
package checkout

import (
	"encoding/json"
	"fmt"
)

type Section string

const (
	SectionNone        Section = ""
	SectionLogin       Section = "login"
	SectionAddress     Section = "address"
	SectionNewAddress  Section = "new-address"
	SectionEditAddress Section = "edit-address"
)

func (s Section) Valid() bool {
	switch s {
	case SectionLogin, SectionAddress, SectionNewAddress, SectionEditAddress:
		return true
	}

	return false
}

// StepGate enforces single-active-step editing. Illegal concurrent entry is
// rejected by TryEnter instead of silently overwriting the active step.
type StepGate struct {
	active Section
}

// TryEnter activates a section. It fails when the section is unknown or a
// different section is already active; re-entering the active section is
// allowed and is a no-op.
func (g *StepGate) TryEnter(s Section) bool {
	if !s.Valid() {
		return false
	}

	if g.active != SectionNone && g.active != s {
		return false
	}

	g.active = s

	return true
}

// Leave clears the gate, but only for the section that holds it. Leaving a
// section that is not active changes nothing.
func (g *StepGate) Leave(s Section) {
	if g.active == s {
		g.active = SectionNone
	}
}

func (g *StepGate) Active() Section {
	return g.active
}

// Locked reports whether any section is active. Order placement and cart
// mutations are refused while the gate is locked.
func (g *StepGate) Locked() bool {
	return g.active != SectionNone
}

// The gate serializes as its active section so the session JSON stays flat.

func (g StepGate) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(g.active))
}

func (g *StepGate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal step gate: %w", err)
	}

	sec := Section(s)
	if sec != SectionNone && !sec.Valid() {
		return fmt.Errorf("unknown checkout section %q", s)
	}

	g.active = sec

	return nil
}
