package platform

import "errors"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// None is the zero window, used where no window is referenced.
const None WindowID = 0

var (
	// ErrConnectionClosed is returned by NextEvent once the windowing system
	// connection is gone. It is fatal for the session.
	ErrConnectionClosed = errors.New("windowing system connection closed")

	// ErrAnotherWM is returned by Init when another window manager already
	// holds substructure redirection on the root window.
	ErrAnotherWM = errors.New("another window manager is already running")
)

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WindowType is the subset of _NET_WM_WINDOW_TYPE values the core cares about.
type WindowType int

const (
	WindowTypeNormal WindowType = iota
	WindowTypeDialog
	WindowTypeDock
)

// WMState mirrors the ICCCM WM_STATE values.
type WMState int

const (
	WMStateWithdrawn WMState = 0
	WMStateNormal    WMState = 1
	WMStateIconic    WMState = 3
)

// WindowAttributes is what the windowing system reports about a window
// before it is managed.
type WindowAttributes struct {
	Geometry         Rect
	OverrideRedirect bool
	Viewable         bool
	Iconic           bool
}

// WindowHints collects the properties used to classify a new window.
type WindowHints struct {
	Class        string
	Instance     string
	Type         WindowType
	Fullscreen   bool
	TransientFor WindowID
	FixedSize    bool
}

// KeySpec is a key chord resolved against the current keyboard mapping.
type KeySpec struct {
	Mods  uint16
	Codes []byte
}

// ButtonSpec is a pointer button chord.
type ButtonSpec struct {
	Mods   uint16
	Button byte
}

// Monitor describes one physical output.
type Monitor struct {
	ID      int
	Name    string
	Bounds  Rect
	Primary bool
}

// Events is the blocking event source.
type Events interface {
	// NextEvent blocks until the next event is available. Non-fatal protocol
	// errors are handled inside the backend; the only error returned is
	// ErrConnectionClosed (possibly wrapped).
	NextEvent() (Event, error)
}

// Surfaces covers geometry, stacking and mapping of windows.
type Surfaces interface {
	ScreenSize() (width, height int)
	Monitors() ([]Monitor, error)
	TopLevelWindows() ([]WindowID, error)
	Attributes(w WindowID) (WindowAttributes, error)
	Hints(w WindowID) WindowHints

	Configure(w WindowID, r Rect, border int)
	Move(w WindowID, x, y int)
	SendConfigureNotify(w WindowID, r Rect)
	ConfigureUnmanaged(req ConfigureRequestEvent)
	Raise(w WindowID)
	Map(w WindowID)
	SetBorderColor(w WindowID, color uint32)
	SelectClientInput(w WindowID)
	Release(w WindowID)
}

// Properties covers window property bookkeeping and protocol negotiation.
type Properties interface {
	SetWMState(w WindowID, state WMState)
	SetClientDesktop(w WindowID, desktop int)
	SetFullscreenState(w WindowID, fullscreen bool)
	SetCurrentDesktop(desktop int)
	SetClientList(windows []WindowID)
	SetActiveWindow(w WindowID)

	SupportsProtocol(w WindowID, protocol string) bool
	SendProtocol(w WindowID, protocol string) error
	KillClient(w WindowID) error
}

// Input covers focus, grabs and the pointer.
type Input interface {
	SetInputFocus(w WindowID)
	ResolveKey(chord string) (KeySpec, error)
	ResolveButton(chord string) (ButtonSpec, error)
	IgnoredModifiers() uint16
	GrabKeys(keys []KeySpec)
	GrabButtons(w WindowID, focused bool, buttons []ButtonSpec)
	ReplayPointer()
	GrabPointer() error
	UngrabPointer()
	QueryPointer() (x, y int, err error)
	WarpPointer(w WindowID, x, y int)
}

// Backend abstracts the windowing-system operations the window manager
// consumes.
type Backend interface {
	Events
	Surfaces
	Properties
	Input

	// Init takes substructure redirection on the root window and advertises
	// the session (supporting-WM check window, supported atoms, desktops).
	Init(name string, desktops int) error
	// Cleanup releases everything Init acquired. Best effort.
	Cleanup()
}

// Protocol names used for cooperative negotiation.
const (
	ProtocolDeleteWindow = "WM_DELETE_WINDOW"
	ProtocolTakeFocus    = "WM_TAKE_FOCUS"
)
