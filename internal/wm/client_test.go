package wm

import (
	"testing"

	"github.com/xi/xiwm/internal/platform"
)

func TestRegistry(t *testing.T) {
	r := newRegistry()
	a := &Client{Window: 1}
	b := &Client{Window: 2, TransientOf: 1}
	c := &Client{Window: 3, TransientOf: 2}
	d := &Client{Window: 4, TransientOf: 1}
	for _, cl := range []*Client{a, b, c, d} {
		r.Add(cl)
	}

	if got := r.Windows(); len(got) != 4 || got[0] != 4 || got[3] != 1 {
		t.Fatalf("expected newest-first order, got %v", got)
	}
	if r.Lookup(platform.None) != nil || r.Lookup(9) != nil {
		t.Fatalf("expected nil for unknown windows")
	}
	if r.Parent(c) != b || r.Parent(a) != nil {
		t.Fatalf("unexpected parents")
	}
	if kids := r.Children(a); len(kids) != 2 || kids[0] != d {
		t.Fatalf("expected children newest first, got %v", kids)
	}
	if got := r.Descendants(a); len(got) != 3 {
		t.Fatalf("expected 3 descendants, got %d", len(got))
	}
	if r.TopTransient(a) != d {
		t.Fatalf("expected newest child chain to end at 4")
	}
	if r.TopTransient(b) != c {
		t.Fatalf("expected 2 -> 3")
	}

	if removed := r.Remove(2); removed != b {
		t.Fatalf("expected removed client returned")
	}
	if c.TransientOf != platform.None {
		t.Fatalf("expected dangling transient link cleared")
	}
	if r.Remove(2) != nil {
		t.Fatalf("expected second removal to be a no-op")
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 clients, got %d", r.Len())
	}
}

func TestRegistry_TransientCycleTerminates(t *testing.T) {
	r := newRegistry()
	a := &Client{Window: 1, TransientOf: 2}
	b := &Client{Window: 2, TransientOf: 1}
	r.Add(a)
	r.Add(b)

	if got := r.TopTransient(a); got == nil {
		t.Fatalf("expected a result")
	}
	if got := r.Descendants(a); len(got) != 1 {
		t.Fatalf("expected cycle to be visited once, got %d", len(got))
	}
}
