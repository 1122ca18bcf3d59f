// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"fmt"
	"strings"

	"github.com/xi/xiwm/internal/platform"
)

// Window is the fake server-side state of one window.
type Window struct {
	Attrs     platform.WindowAttributes
	Hints     platform.WindowHints
	Protocols []string
	Geometry  platform.Rect
	Border    int
	Color     uint32
	Mapped    bool
	State     platform.WMState
	Desktop   int
	Focused   bool
}

// Backend records every request issued by the window manager.
type Backend struct {
	Width, Height int

	Windows map[platform.WindowID]*Window
	Order   []platform.WindowID // stacking order, bottom to top

	Queue []platform.Event

	Focus          platform.WindowID
	Active         platform.WindowID
	CurrentDesktop int
	ClientList     []platform.WindowID
	Killed         []platform.WindowID
	Sent           []string // "<window>:<protocol>"
	Notified       []platform.WindowID
	Unmanaged      []platform.ConfigureRequestEvent
	Raised         []platform.WindowID
	Spawned        [][]string
	Replayed       int

	PointerX, PointerY int
	PointerGrabbed     bool
	GrabFails          bool
	Warps              []platform.Rect

	KeyGrabs   []platform.KeySpec
	ButtonGrab map[platform.WindowID]bool

	Initialized bool
	CleanedUp   bool
}

var _ platform.Backend = (*Backend)(nil)

// New returns a fake backend with the given screen size.
func New(width, height int) *Backend {
	return &Backend{
		Width:      width,
		Height:     height,
		Windows:    make(map[platform.WindowID]*Window),
		ButtonGrab: make(map[platform.WindowID]bool),
	}
}

// AddWindow registers a window that exists on the fake server.
func (b *Backend) AddWindow(id platform.WindowID, geom platform.Rect, hints platform.WindowHints) *Window {
	w := &Window{
		Attrs:    platform.WindowAttributes{Geometry: geom},
		Hints:    hints,
		Geometry: geom,
	}
	b.Windows[id] = w
	return w
}

// Push appends events to the queue consumed by NextEvent.
func (b *Backend) Push(evs ...platform.Event) {
	b.Queue = append(b.Queue, evs...)
}

func (b *Backend) NextEvent() (platform.Event, error) {
	if len(b.Queue) == 0 {
		return nil, platform.ErrConnectionClosed
	}
	ev := b.Queue[0]
	b.Queue = b.Queue[1:]
	return ev, nil
}

func (b *Backend) ScreenSize() (int, int) { return b.Width, b.Height }

func (b *Backend) Monitors() ([]platform.Monitor, error) {
	return []platform.Monitor{{ID: 0, Name: "fake", Bounds: platform.Rect{Width: b.Width, Height: b.Height}, Primary: true}}, nil
}

func (b *Backend) TopLevelWindows() ([]platform.WindowID, error) {
	ids := make([]platform.WindowID, 0, len(b.Windows))
	for id := range b.Windows {
		ids = append(ids, id)
	}
	// deterministic order
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids, nil
}

func (b *Backend) Attributes(id platform.WindowID) (platform.WindowAttributes, error) {
	w, ok := b.Windows[id]
	if !ok {
		return platform.WindowAttributes{}, fmt.Errorf("bad window %d", id)
	}
	return w.Attrs, nil
}

func (b *Backend) Hints(id platform.WindowID) platform.WindowHints {
	if w, ok := b.Windows[id]; ok {
		return w.Hints
	}
	return platform.WindowHints{}
}

func (b *Backend) Configure(id platform.WindowID, r platform.Rect, border int) {
	if w, ok := b.Windows[id]; ok {
		w.Geometry = r
		w.Border = border
	}
}

func (b *Backend) Move(id platform.WindowID, x, y int) {
	if w, ok := b.Windows[id]; ok {
		w.Geometry.X = x
		w.Geometry.Y = y
	}
}

func (b *Backend) SendConfigureNotify(id platform.WindowID, _ platform.Rect) {
	b.Notified = append(b.Notified, id)
}

func (b *Backend) ConfigureUnmanaged(req platform.ConfigureRequestEvent) {
	b.Unmanaged = append(b.Unmanaged, req)
}

func (b *Backend) Raise(id platform.WindowID) {
	b.Raised = append(b.Raised, id)
	for i, o := range b.Order {
		if o == id {
			b.Order = append(b.Order[:i], b.Order[i+1:]...)
			break
		}
	}
	b.Order = append(b.Order, id)
}

// Top returns the topmost window in the stacking order.
func (b *Backend) Top() platform.WindowID {
	if len(b.Order) == 0 {
		return platform.None
	}
	return b.Order[len(b.Order)-1]
}

func (b *Backend) Map(id platform.WindowID) {
	if w, ok := b.Windows[id]; ok {
		w.Mapped = true
	}
}

func (b *Backend) SetBorderColor(id platform.WindowID, color uint32) {
	if w, ok := b.Windows[id]; ok {
		w.Color = color
	}
}

func (b *Backend) SelectClientInput(platform.WindowID) {}

func (b *Backend) Release(id platform.WindowID) {
	if w, ok := b.Windows[id]; ok {
		w.State = platform.WMStateWithdrawn
		w.Border = 0
	}
	delete(b.ButtonGrab, id)
}

func (b *Backend) SetWMState(id platform.WindowID, state platform.WMState) {
	if w, ok := b.Windows[id]; ok {
		w.State = state
	}
}

func (b *Backend) SetClientDesktop(id platform.WindowID, desktop int) {
	if w, ok := b.Windows[id]; ok {
		w.Desktop = desktop
	}
}

func (b *Backend) SetFullscreenState(id platform.WindowID, fullscreen bool) {
	if w, ok := b.Windows[id]; ok {
		w.Hints.Fullscreen = fullscreen
	}
}

func (b *Backend) SetCurrentDesktop(desktop int) { b.CurrentDesktop = desktop }

func (b *Backend) SetClientList(windows []platform.WindowID) {
	b.ClientList = append([]platform.WindowID(nil), windows...)
}

func (b *Backend) SetActiveWindow(id platform.WindowID) { b.Active = id }

func (b *Backend) SupportsProtocol(id platform.WindowID, protocol string) bool {
	w, ok := b.Windows[id]
	if !ok {
		return false
	}
	for _, p := range w.Protocols {
		if p == protocol {
			return true
		}
	}
	return false
}

func (b *Backend) SendProtocol(id platform.WindowID, protocol string) error {
	b.Sent = append(b.Sent, fmt.Sprintf("%d:%s", id, protocol))
	return nil
}

// SentTo reports whether protocol was sent to the window.
func (b *Backend) SentTo(id platform.WindowID, protocol string) bool {
	want := fmt.Sprintf("%d:%s", id, protocol)
	for _, s := range b.Sent {
		if s == want {
			return true
		}
	}
	return false
}

func (b *Backend) KillClient(id platform.WindowID) error {
	b.Killed = append(b.Killed, id)
	return nil
}

func (b *Backend) SetInputFocus(id platform.WindowID) {
	if w, ok := b.Windows[b.Focus]; ok {
		w.Focused = false
	}
	b.Focus = id
	if w, ok := b.Windows[id]; ok {
		w.Focused = true
	}
}

// ResolveKey accepts chords of the form "Mod1-Shift-<code>" where the final
// element is a decimal keycode or a single character whose byte value is
// used as the keycode.
func (b *Backend) ResolveKey(chord string) (platform.KeySpec, error) {
	mods, last, err := splitChord(chord)
	if err != nil {
		return platform.KeySpec{}, err
	}
	var code int
	if _, err := fmt.Sscanf(last, "%d", &code); err != nil {
		code = int(last[0])
	}
	return platform.KeySpec{Mods: mods, Codes: []byte{byte(code)}}, nil
}

func (b *Backend) ResolveButton(chord string) (platform.ButtonSpec, error) {
	mods, last, err := splitChord(chord)
	if err != nil {
		return platform.ButtonSpec{}, err
	}
	var button int
	if _, err := fmt.Sscanf(last, "%d", &button); err != nil || button < 1 || button > 5 {
		return platform.ButtonSpec{}, fmt.Errorf("bad button %q", last)
	}
	return platform.ButtonSpec{Mods: mods, Button: byte(button)}, nil
}

// Modifier masks used by the fake chord parser. They match the X11 values.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod2       uint16 = 1 << 4
	Mod4       uint16 = 1 << 6
)

func splitChord(chord string) (uint16, string, error) {
	parts := strings.Split(chord, "-")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return 0, "", fmt.Errorf("empty chord %q", chord)
	}
	var mods uint16
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "shift":
			mods |= ModShift
		case "lock":
			mods |= ModLock
		case "control":
			mods |= ModControl
		case "mod1":
			mods |= Mod1
		case "mod2":
			mods |= Mod2
		case "mod4":
			mods |= Mod4
		default:
			return 0, "", fmt.Errorf("unknown modifier %q", p)
		}
	}
	return mods, parts[len(parts)-1], nil
}

// IgnoredModifiers treats Mod2 as NumLock.
func (b *Backend) IgnoredModifiers() uint16 { return ModLock | Mod2 }

func (b *Backend) GrabKeys(keys []platform.KeySpec) {
	b.KeyGrabs = append([]platform.KeySpec(nil), keys...)
}

func (b *Backend) GrabButtons(id platform.WindowID, focused bool, _ []platform.ButtonSpec) {
	b.ButtonGrab[id] = focused
}

func (b *Backend) ReplayPointer() { b.Replayed++ }

func (b *Backend) GrabPointer() error {
	if b.GrabFails {
		return fmt.Errorf("pointer already grabbed")
	}
	b.PointerGrabbed = true
	return nil
}

func (b *Backend) UngrabPointer() { b.PointerGrabbed = false }

func (b *Backend) QueryPointer() (int, int, error) { return b.PointerX, b.PointerY, nil }

func (b *Backend) WarpPointer(id platform.WindowID, x, y int) {
	b.Warps = append(b.Warps, platform.Rect{X: x, Y: y})
	if w, ok := b.Windows[id]; ok {
		b.PointerX = w.Geometry.X + x
		b.PointerY = w.Geometry.Y + y
	}
}

func (b *Backend) Init(string, int) error {
	b.Initialized = true
	return nil
}

func (b *Backend) Cleanup() { b.CleanedUp = true }
