package wm

import (
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/tiling"
)

// Client is the window manager's record of one managed window.
type Client struct {
	Window platform.WindowID

	Geometry      tiling.Rect
	FloatGeometry tiling.Rect

	Desktop int
	Class   tiling.LayoutClass

	FixedSize  bool
	Fullscreen bool
	IsDock     bool

	// TransientOf names the owner window. It is a weak reference: always
	// resolve it through the registry.
	TransientOf platform.WindowID

	WMClass  string
	Instance string
}

// Registry owns every managed client. The list is kept newest first; the map
// gives O(1) lookup by window.
type Registry struct {
	clients  []*Client
	byWindow map[platform.WindowID]*Client
}

func newRegistry() *Registry {
	return &Registry{byWindow: make(map[platform.WindowID]*Client)}
}

// Add inserts c at the head of the list.
func (r *Registry) Add(c *Client) {
	r.clients = append([]*Client{c}, r.clients...)
	r.byWindow[c.Window] = c
}

// Remove drops the client for w and returns it, or nil if w is unknown.
// Transient links pointing at the removed client are cleared.
func (r *Registry) Remove(w platform.WindowID) *Client {
	c, ok := r.byWindow[w]
	if !ok {
		return nil
	}
	delete(r.byWindow, w)
	for i, o := range r.clients {
		if o == c {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			break
		}
	}
	for _, o := range r.clients {
		if o.TransientOf == w {
			o.TransientOf = platform.None
		}
	}
	return c
}

// Lookup returns the client for w or nil.
func (r *Registry) Lookup(w platform.WindowID) *Client {
	if w == platform.None {
		return nil
	}
	return r.byWindow[w]
}

// All returns the clients in list order. The slice must not be modified.
func (r *Registry) All() []*Client {
	return r.clients
}

// Len returns the number of managed clients.
func (r *Registry) Len() int {
	return len(r.clients)
}

// Windows returns the managed windows in list order.
func (r *Registry) Windows() []platform.WindowID {
	ids := make([]platform.WindowID, len(r.clients))
	for i, c := range r.clients {
		ids[i] = c.Window
	}
	return ids
}

// Parent resolves c's transient owner.
func (r *Registry) Parent(c *Client) *Client {
	if c == nil {
		return nil
	}
	return r.Lookup(c.TransientOf)
}

// Root follows c's transient owners up to the first client that has none.
func (r *Registry) Root(c *Client) *Client {
	seen := map[*Client]bool{}
	for !seen[c] {
		seen[c] = true
		p := r.Parent(c)
		if p == nil {
			return c
		}
		c = p
	}
	return c
}

// Children returns the clients transient for c, newest first.
func (r *Registry) Children(c *Client) []*Client {
	var out []*Client
	for _, o := range r.clients {
		if o.TransientOf == c.Window && o != c {
			out = append(out, o)
		}
	}
	return out
}

// Descendants returns every client transitively transient for c.
func (r *Registry) Descendants(c *Client) []*Client {
	var out []*Client
	seen := map[*Client]bool{c: true}
	queue := []*Client{c}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range r.Children(cur) {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}

// TopTransient follows the newest transient child of c until it reaches a
// client without children. It returns c itself when c has none.
func (r *Registry) TopTransient(c *Client) *Client {
	seen := map[*Client]bool{}
	for !seen[c] {
		seen[c] = true
		children := r.Children(c)
		if len(children) == 0 {
			return c
		}
		c = children[0]
	}
	return c
}
