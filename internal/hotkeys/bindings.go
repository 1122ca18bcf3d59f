// Package hotkeys resolves configured key and button chords and matches
// incoming input events against them.
package hotkeys

import (
	"fmt"

	"github.com/xi/xiwm/internal/command"
	"github.com/xi/xiwm/internal/platform"
)

// Core X modifier masks.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod2       uint16 = 1 << 4
	Mod3       uint16 = 1 << 5
	Mod4       uint16 = 1 << 6
	Mod5       uint16 = 1 << 7

	relevantMods = ModShift | ModControl | Mod1 | Mod2 | Mod3 | Mod4 | Mod5
)

// Binding ties a chord string to the command it triggers.
type Binding struct {
	Chord   string
	Command command.Command
}

// Resolver turns chord strings into keyboard/pointer specs. The platform
// backend implements it.
type Resolver interface {
	ResolveKey(chord string) (platform.KeySpec, error)
	ResolveButton(chord string) (platform.ButtonSpec, error)
	IgnoredModifiers() uint16
}

type keyEntry struct {
	spec    platform.KeySpec
	command command.Command
}

type buttonEntry struct {
	spec    platform.ButtonSpec
	command command.Command
}

// Table is the resolved binding table. Lookups scan in configuration order
// and the first match wins.
type Table struct {
	keys    []keyEntry
	buttons []buttonEntry
	ignored uint16
}

// NewTable resolves every binding through r.
func NewTable(r Resolver, keys, buttons []Binding) (*Table, error) {
	t := &Table{ignored: r.IgnoredModifiers()}

	for _, b := range keys {
		spec, err := r.ResolveKey(b.Chord)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", b.Chord, err)
		}
		if len(spec.Codes) == 0 {
			return nil, fmt.Errorf("key %q: no keycode in the current keyboard mapping", b.Chord)
		}
		spec.Mods = t.CleanMask(spec.Mods)
		t.keys = append(t.keys, keyEntry{spec: spec, command: b.Command})
	}

	for _, b := range buttons {
		spec, err := r.ResolveButton(b.Chord)
		if err != nil {
			return nil, fmt.Errorf("button %q: %w", b.Chord, err)
		}
		spec.Mods = t.CleanMask(spec.Mods)
		t.buttons = append(t.buttons, buttonEntry{spec: spec, command: b.Command})
	}

	return t, nil
}

// CleanMask drops the lock modifiers (Caps Lock plus whatever the keyboard
// maps Num Lock and Scroll Lock to) and any non-modifier bits.
func (t *Table) CleanMask(mods uint16) uint16 {
	return mods &^ (ModLock | t.ignored) & relevantMods
}

// MatchKey returns the command bound to the key press.
func (t *Table) MatchKey(mods uint16, keycode byte) (command.Command, bool) {
	mods = t.CleanMask(mods)
	for _, e := range t.keys {
		if e.spec.Mods != mods {
			continue
		}
		for _, code := range e.spec.Codes {
			if code == keycode {
				return e.command, true
			}
		}
	}
	return nil, false
}

// MatchButton returns the command bound to the button press.
func (t *Table) MatchButton(mods uint16, button byte) (command.Command, bool) {
	mods = t.CleanMask(mods)
	for _, e := range t.buttons {
		if e.spec.Button == button && e.spec.Mods == mods {
			return e.command, true
		}
	}
	return nil, false
}

// KeySpecs returns the specs to grab on the root window.
func (t *Table) KeySpecs() []platform.KeySpec {
	specs := make([]platform.KeySpec, len(t.keys))
	for i, e := range t.keys {
		specs[i] = e.spec
	}
	return specs
}

// ButtonSpecs returns the specs to grab on focused clients.
func (t *Table) ButtonSpecs() []platform.ButtonSpec {
	specs := make([]platform.ButtonSpec, len(t.buttons))
	for i, e := range t.buttons {
		specs[i] = e.spec
	}
	return specs
}
