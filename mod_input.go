package shaderlab

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

type EventKind int

const (
	EventKey EventKind = iota
	EventMouseButton
	EventMouseMove
	EventMouseWheel
	EventLog
	EventClose
)

// Event is one input notification from the window. Only the fields of its
// Kind are set.
type Event struct {
	Kind    EventKind
	Key     int
	Pressed bool
	X, Y    float64
	Wheel   float64
	Text    string
}

// EventSink receives events as they arrive. Returning true marks the event
// handled; later sinks still see it.
type EventSink interface {
	OnEvent(e Event) bool
}

type EventSinkFunc func(e Event) bool

func (f EventSinkFunc) OnEvent(e Event) bool { return f(e) }

type Input struct {
	Pressed [256]bool

	JustPressed  [256]bool
	JustReleased [256]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseWheel               float64
	MouseCaptured            bool

	CloseRequested bool

	log   Logger
	sinks []EventSink
}

func NewInput(log Logger) *Input {
	if log == nil {
		log = NewNopLogger()
	}
	return &Input{log: log}
}

func (in *Input) AddSink(s EventSink) {
	in.sinks = append(in.sinks, s)
}

// BeginFrame clears the per-frame edges and deltas.
func (in *Input) BeginFrame() {
	in.JustPressed = [256]bool{}
	in.JustReleased = [256]bool{}
	in.MouseDeltaX, in.MouseDeltaY = 0, 0
	in.MouseWheel = 0
}

// OnEvent folds e into the key and mouse state, then hands it to every sink.
func (in *Input) OnEvent(e Event) bool {
	switch e.Kind {
	case EventKey, EventMouseButton:
		if e.Key < 0 || e.Key >= len(in.Pressed) {
			return false
		}
		if e.Pressed && !in.Pressed[e.Key] {
			in.JustPressed[e.Key] = true
		}
		if !e.Pressed && in.Pressed[e.Key] {
			in.JustReleased[e.Key] = true
		}
		in.Pressed[e.Key] = e.Pressed

		if e.Kind == EventKey && e.Key == KeyEscape && e.Pressed {
			in.CloseRequested = true
		}
	case EventMouseMove:
		if in.MouseCaptured {
			in.MouseDeltaX += e.X - in.MouseX
			in.MouseDeltaY += e.Y - in.MouseY
		}
		in.MouseX, in.MouseY = e.X, e.Y
	case EventMouseWheel:
		in.MouseWheel += e.Wheel
	case EventLog:
		in.log.Infof("%s", e.Text)
	case EventClose:
		in.CloseRequested = true
	}

	for _, s := range in.sinks {
		s.OnEvent(e)
	}
	return true
}

type InputModule struct{}

func (mod InputModule) Step() string { return "input" }

func (mod InputModule) Install(app *App, cmd *Commands) error {
	input := NewInput(app.Logger())
	cmd.AddResources(input)

	ws, ok := Resource[WindowState](app)
	if !ok {
		// headless: events arrive through Input.OnEvent between frames
		app.UseSystem(
			System(input.BeginFrame).
				InStage(Finale).
				RunAlways(),
		)
		return nil
	}

	bindWindowEvents(ws, input)
	cmd.OnShutdown("input", func() error {
		unbindWindowEvents(ws)
		return nil
	})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	return nil
}

func inputSystem(s *WindowState, input *Input) {
	input.BeginFrame()
	glfw.PollEvents()

	if s.ShouldClose() {
		input.OnEvent(Event{Kind: EventClose})
	}
	if input.MouseCaptured {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}
}

func bindWindowEvents(s *WindowState, input *Input) {
	w := s.windowGlfw
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		k, ok := glfwToKey[key]
		if !ok || action == glfw.Repeat {
			return
		}
		input.OnEvent(Event{Kind: EventKey, Key: k, Pressed: action == glfw.Press})
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := glfwToButton[button]
		if !ok {
			return
		}
		input.OnEvent(Event{Kind: EventMouseButton, Key: b, Pressed: action == glfw.Press})
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		input.OnEvent(Event{Kind: EventMouseMove, X: x, Y: y})
	})
	w.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		input.OnEvent(Event{Kind: EventMouseWheel, Wheel: yoff})
	})
	w.SetCloseCallback(func(_ *glfw.Window) {
		input.OnEvent(Event{Kind: EventClose})
	})
}

func unbindWindowEvents(s *WindowState) {
	w := s.windowGlfw
	if w == nil {
		return
	}
	w.SetKeyCallback(nil)
	w.SetMouseButtonCallback(nil)
	w.SetCursorPosCallback(nil)
	w.SetScrollCallback(nil)
	w.SetCloseCallback(nil)
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:       glfw.KeyA,
	KeyB:       glfw.KeyB,
	KeyC:       glfw.KeyC,
	KeyD:       glfw.KeyD,
	KeyE:       glfw.KeyE,
	KeyF:       glfw.KeyF,
	KeyG:       glfw.KeyG,
	KeyH:       glfw.KeyH,
	KeyI:       glfw.KeyI,
	KeyJ:       glfw.KeyJ,
	KeyK:       glfw.KeyK,
	KeyL:       glfw.KeyL,
	KeyM:       glfw.KeyM,
	KeyN:       glfw.KeyN,
	KeyO:       glfw.KeyO,
	KeyP:       glfw.KeyP,
	KeyQ:       glfw.KeyQ,
	KeyR:       glfw.KeyR,
	KeyS:       glfw.KeyS,
	KeyT:       glfw.KeyT,
	KeyU:       glfw.KeyU,
	KeyV:       glfw.KeyV,
	KeyW:       glfw.KeyW,
	KeyX:       glfw.KeyX,
	KeyY:       glfw.KeyY,
	KeyZ:       glfw.KeyZ,
	KeySpace:   glfw.KeySpace,
	KeyEnter:   glfw.KeyEnter,
	KeyEscape:  glfw.KeyEscape,
	KeyTab:     glfw.KeyTab,
	KeyRight:   glfw.KeyRight,
	KeyLeft:    glfw.KeyLeft,
	KeyDown:    glfw.KeyDown,
	KeyUp:      glfw.KeyUp,
	KeyShift:   glfw.KeyLeftShift,
	KeyControl: glfw.KeyLeftControl,
}

var glfwToKey = func() map[glfw.Key]int {
	m := make(map[glfw.Key]int, len(keyToGlfw))
	for k, g := range keyToGlfw {
		m[g] = k
	}
	return m
}()

var glfwToButton = map[glfw.MouseButton]int{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}
