package scrapbook

// Editor minimum sizes. The server accepts smaller geometry from old
// documents; these floors only apply while resizing interactively.
const (
	MinElementWidth  = 50.0
	MinElementHeight = 30.0

	handleHitSize = 10.0
)

// Handle names the four corner resize handles.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSW Handle = "sw"
	HandleSE Handle = "se"
)

type editorState int

const (
	stateIdle editorState = iota
	stateDragging
	stateResizing
)

// Surface is the bounded editing area. Origin is its offset in pointer
// coordinates; Width/Height bound where elements may sit.
type Surface struct {
	Width   float64
	Height  float64
	OriginX float64
	OriginY float64
}

// Editor is the pointer-driven drag/resize state machine over one page's
// working set. Exactly one element is active at a time; pointer handlers
// only do work between PointerDown and PointerUp, mirroring listeners that
// are attached on mousedown and detached on mouseup.
type Editor struct {
	surface  Surface
	elements []Element
	active   int
	open     bool

	state editorState

	// drag
	dragOffX float64
	dragOffY float64

	// resize
	handle    Handle
	startPX   float64
	startPY   float64
	startW    float64
	startH    float64
	startLeft float64
	startTop  float64
}

// NewEditor loads a page's elements into a working set. The page itself is
// not mutated; CapturePage snapshots the working set back out.
func NewEditor(surface Surface, page Page) *Editor {
	ed := &Editor{
		surface:  surface,
		elements: make([]Element, len(page.Elements)),
		active:   -1,
	}
	copy(ed.elements, page.Elements)
	for i := range ed.elements {
		ed.elements[i].Normalize()
	}
	return ed
}

// Open marks the editor surface visible. Delete-key handling is ignored
// while closed.
func (ed *Editor) Open()  { ed.open = true }
func (ed *Editor) Close() { ed.open = false; ed.state = stateIdle }

// Elements returns a copy of the working set in insertion order.
func (ed *Editor) Elements() []Element {
	out := make([]Element, len(ed.elements))
	copy(out, ed.elements)
	return out
}

// ActiveIndex returns the selected element's index, or -1.
func (ed *Editor) ActiveIndex() int { return ed.active }

// Dragging and Resizing report the current interaction state.
func (ed *Editor) Dragging() bool  { return ed.state == stateDragging }
func (ed *Editor) Resizing() bool  { return ed.state == stateResizing }

// Add appends an element to the working set and selects it.
func (ed *Editor) Add(e Element) int {
	e.Normalize()
	ed.elements = append(ed.elements, e)
	ed.active = len(ed.elements) - 1
	return ed.active
}

// PointerDown starts a drag or resize. Coordinates are pointer-space (the
// surface origin is subtracted internally). Resize handles are checked
// before element bodies so a handle press never begins a drag. A press on
// empty surface deselects.
func (ed *Editor) PointerDown(px, py float64) {
	sx := px - ed.surface.OriginX
	sy := py - ed.surface.OriginY

	if ed.active >= 0 {
		if h, ok := ed.hitHandle(ed.elements[ed.active], sx, sy); ok {
			el := ed.elements[ed.active]
			ed.state = stateResizing
			ed.handle = h
			ed.startPX, ed.startPY = px, py
			ed.startW, ed.startH = el.Width, el.Height
			ed.startLeft, ed.startTop = el.X, el.Y
			return
		}
	}

	// Topmost element wins: later insertions sit above earlier ones.
	for i := len(ed.elements) - 1; i >= 0; i-- {
		el := ed.elements[i]
		if sx >= el.X && sx <= el.X+el.Width && sy >= el.Y && sy <= el.Y+el.Height {
			ed.active = i
			ed.state = stateDragging
			ed.dragOffX = sx - el.X
			ed.dragOffY = sy - el.Y
			return
		}
	}

	ed.active = -1
	ed.state = stateIdle
}

// PointerMove advances an in-progress drag or resize; it is a no-op while
// idle.
func (ed *Editor) PointerMove(px, py float64) {
	switch ed.state {
	case stateDragging:
		ed.drag(px, py)
	case stateResizing:
		ed.resize(px, py)
	}
}

// PointerUp ends the current operation. The element stays selected.
func (ed *Editor) PointerUp() {
	ed.state = stateIdle
}

// PressDelete removes the active element. Only honored while the editor
// surface is open.
func (ed *Editor) PressDelete() bool {
	if !ed.open || ed.active < 0 {
		return false
	}
	ed.elements = append(ed.elements[:ed.active], ed.elements[ed.active+1:]...)
	ed.active = -1
	ed.state = stateIdle
	return true
}

func (ed *Editor) drag(px, py float64) {
	if ed.active < 0 {
		return
	}
	el := &ed.elements[ed.active]
	newX := px - ed.surface.OriginX - ed.dragOffX
	newY := py - ed.surface.OriginY - ed.dragOffY
	el.X = max(0, min(newX, ed.surface.Width-el.Width))
	el.Y = max(0, min(newY, ed.surface.Height-el.Height))
}

func (ed *Editor) resize(px, py float64) {
	if ed.active < 0 {
		return
	}
	el := &ed.elements[ed.active]
	dx := px - ed.startPX
	dy := py - ed.startPY

	w, h := ed.startW, ed.startH
	left, top := ed.startLeft, ed.startTop

	switch ed.handle {
	case HandleSE:
		w = ed.startW + dx
		h = ed.startH + dy
	case HandleSW:
		w = ed.startW - dx
		h = ed.startH + dy
		left = ed.startLeft + dx
	case HandleNE:
		w = ed.startW + dx
		h = ed.startH - dy
		top = ed.startTop + dy
	case HandleNW:
		w = ed.startW - dx
		h = ed.startH - dy
		left = ed.startLeft + dx
		top = ed.startTop + dy
	}

	// Size floors and position floors are applied independently: when a
	// shrink bottoms out at the minimum the dragged edge stops but the
	// opposite edge still tracks the pointer. Current behavior, kept as-is.
	el.Width = max(w, MinElementWidth)
	el.Height = max(h, MinElementHeight)
	el.X = max(left, 0)
	el.Y = max(top, 0)
}

// hitHandle tests the four corner handles of el in surface coordinates.
func (ed *Editor) hitHandle(el Element, sx, sy float64) (Handle, bool) {
	corners := []struct {
		h    Handle
		x, y float64
	}{
		{HandleNW, el.X, el.Y},
		{HandleNE, el.X + el.Width, el.Y},
		{HandleSW, el.X, el.Y + el.Height},
		{HandleSE, el.X + el.Width, el.Y + el.Height},
	}
	half := handleHitSize / 2
	for _, c := range corners {
		if sx >= c.x-half && sx <= c.x+half && sy >= c.y-half && sy <= c.y+half {
			return c.h, true
		}
	}
	return "", false
}
