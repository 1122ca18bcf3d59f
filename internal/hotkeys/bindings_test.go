package hotkeys

import (
	"strings"
	"testing"

	"github.com/xi/xiwm/internal/command"
	"github.com/xi/xiwm/internal/platform/platformtest"
)

func newTable(t *testing.T) *Table {
	t.Helper()
	fake := platformtest.New(800, 600)
	table, err := NewTable(fake,
		[]Binding{
			{Chord: "Mod1-Control-t", Command: command.Kill{}},
			{Chord: "Mod1-j", Command: command.FocusStack{Delta: 1}},
			{Chord: "Mod1-Shift-j", Command: command.FocusStack{Delta: -1}},
			{Chord: "Mod1-j", Command: command.Quit{}},
		},
		[]Binding{
			{Chord: "Mod1-1", Command: command.Move{}},
			{Chord: "Mod1-3", Command: command.Resize{}},
		},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestMatchKey(t *testing.T) {
	table := newTable(t)

	tests := []struct {
		name string
		mods uint16
		code byte
		want command.Command
	}{
		{"exact", Mod1 | ModControl, 't', command.Kill{}},
		{"caps lock ignored", Mod1 | ModControl | ModLock, 't', command.Kill{}},
		{"num lock ignored", Mod1 | Mod2, 'j', command.FocusStack{Delta: 1}},
		{"shift distinguishes", Mod1 | ModShift, 'j', command.FocusStack{Delta: -1}},
		{"first match wins", Mod1, 'j', command.FocusStack{Delta: 1}},
		{"button bits stripped", Mod1 | 1<<8, 'j', command.FocusStack{Delta: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.MatchKey(tt.mods, tt.code)
			if !ok {
				t.Fatalf("expected a match")
			}
			if got != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestMatchKey_NoMatch(t *testing.T) {
	table := newTable(t)

	if _, ok := table.MatchKey(ModControl, 't'); ok {
		t.Fatalf("expected no match without Mod1")
	}
	if _, ok := table.MatchKey(Mod1|ModControl, 'x'); ok {
		t.Fatalf("expected no match for an unbound key")
	}
}

func TestMatchButton(t *testing.T) {
	table := newTable(t)

	got, ok := table.MatchButton(Mod1|ModLock, 3)
	if !ok || got != (command.Resize{}) {
		t.Fatalf("expected Resize, got %#v (ok=%v)", got, ok)
	}
	if _, ok := table.MatchButton(0, 1); ok {
		t.Fatalf("expected a plain click not to match")
	}
}

func TestNewTable_BadChord(t *testing.T) {
	fake := platformtest.New(800, 600)
	_, err := NewTable(fake, []Binding{{Chord: "Hyper-x", Command: command.Quit{}}}, nil)
	if err == nil || !strings.Contains(err.Error(), "Hyper-x") {
		t.Fatalf("expected error naming the chord, got %v", err)
	}

	_, err = NewTable(fake, nil, []Binding{{Chord: "Mod1-9", Command: command.Move{}}})
	if err == nil {
		t.Fatalf("expected error for button 9")
	}
}

func TestSpecs_CleanedForGrabbing(t *testing.T) {
	table := newTable(t)
	keys := table.KeySpecs()
	if len(keys) != 4 {
		t.Fatalf("expected 4 key specs, got %d", len(keys))
	}
	if keys[0].Mods != Mod1|ModControl || keys[0].Codes[0] != 't' {
		t.Fatalf("unexpected first key spec %+v", keys[0])
	}
	if len(table.ButtonSpecs()) != 2 {
		t.Fatalf("expected 2 button specs")
	}
}
