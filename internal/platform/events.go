package platform

// Event is one record from the windowing system's event stream. The set of
// variants is closed; consumers switch on the concrete type.
type Event interface {
	isEvent()
}

// MapRequestEvent asks the window manager to map a new top-level window.
type MapRequestEvent struct {
	Window WindowID
}

// DestroyNotifyEvent reports a destroyed window.
type DestroyNotifyEvent struct {
	Window WindowID
}

// UnmapNotifyEvent reports an unmapped window. Synthetic is set for events
// sent by the client itself (ICCCM withdraw requests).
type UnmapNotifyEvent struct {
	Window    WindowID
	Synthetic bool
}

// Configure request value-mask bits.
const (
	ConfigX uint16 = 1 << iota
	ConfigY
	ConfigWidth
	ConfigHeight
	ConfigBorderWidth
	ConfigSibling
	ConfigStackMode
)

// ConfigureRequestEvent asks for a geometry or stacking change.
type ConfigureRequestEvent struct {
	Window      WindowID
	Mask        uint16
	X, Y        int
	Width       int
	Height      int
	BorderWidth int
	Sibling     WindowID
	StackMode   byte
}

// Has reports whether every bit in mask is present in the request.
func (e ConfigureRequestEvent) Has(mask uint16) bool {
	return e.Mask&mask == mask
}

// Any reports whether at least one bit in mask is present.
func (e ConfigureRequestEvent) Any(mask uint16) bool {
	return e.Mask&mask != 0
}

// StateAction is the _NET_WM_STATE client message action.
type StateAction int

const (
	StateRemove StateAction = 0
	StateAdd    StateAction = 1
	StateToggle StateAction = 2
)

// FullscreenRequestEvent is a _NET_WM_STATE message naming the fullscreen
// state.
type FullscreenRequestEvent struct {
	Window WindowID
	Action StateAction
}

// ActivateRequestEvent is a _NET_ACTIVE_WINDOW message.
type ActivateRequestEvent struct {
	Window WindowID
}

// ScreenChangeEvent reports new root window dimensions.
type ScreenChangeEvent struct {
	Width  int
	Height int
}

// KeyPressEvent is a grabbed key press.
type KeyPressEvent struct {
	Mods    uint16
	Keycode byte
}

// ButtonPressEvent is a button press on a client window.
type ButtonPressEvent struct {
	Window WindowID
	Mods   uint16
	Button byte
	RootX  int
	RootY  int
}

// ButtonReleaseEvent ends a pointer drag.
type ButtonReleaseEvent struct{}

// MotionEvent is pointer motion during a drag. Time is in milliseconds.
type MotionEvent struct {
	RootX int
	RootY int
	Time  uint32
}

func (MapRequestEvent) isEvent()        {}
func (DestroyNotifyEvent) isEvent()     {}
func (UnmapNotifyEvent) isEvent()       {}
func (ConfigureRequestEvent) isEvent()  {}
func (FullscreenRequestEvent) isEvent() {}
func (ActivateRequestEvent) isEvent()   {}
func (ScreenChangeEvent) isEvent()      {}
func (KeyPressEvent) isEvent()          {}
func (ButtonPressEvent) isEvent()       {}
func (ButtonReleaseEvent) isEvent()     {}
func (MotionEvent) isEvent()            {}
