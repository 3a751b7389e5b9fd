package render

import "fovcone/internal/fov"

// WindowSizer reports the live window size in physical pixels.
type WindowSizer interface {
	WindowSize() Extent
}

// WindowSizerFunc adapts a function to WindowSizer.
type WindowSizerFunc func() Extent

func (f WindowSizerFunc) WindowSize() Extent { return f() }

// Resizable is anything that follows the viewport size.
type Resizable interface {
	OnViewportResize(size Extent)
}

// ResizeEvent is a discrete window-resized notification. Size is the size
// carried by the event; the reactor reads the live window size instead.
type ResizeEvent struct {
	Size Extent
}

// ResizeReactor forwards the live window size to every registered
// Resizable when a resize event arrives.
type ResizeReactor struct {
	window  WindowSizer
	targets []Resizable
	last    Extent
}

// NewResizeReactor reads sizes from window.
func NewResizeReactor(window WindowSizer, targets ...Resizable) *ResizeReactor {
	return &ResizeReactor{window: window, targets: targets}
}

// Register adds t to the resize targets.
func (r *ResizeReactor) Register(t Resizable) { r.targets = append(r.targets, t) }

// Handle reacts to one event and reports whether anything was resized.
// Several events in one frame collapse to the last live size.
func (r *ResizeReactor) Handle(ResizeEvent) bool {
	size := r.window.WindowSize()
	if size.Empty() || size == r.last {
		return false
	}
	r.last = size
	for _, t := range r.targets {
		t.OnViewportResize(size)
	}
	fov.Logger().Debug("viewport resized", "size", size.String())
	return true
}

// HandleAll drains events and reports whether any resize happened.
func (r *ResizeReactor) HandleAll(events []ResizeEvent) bool {
	resized := false
	for _, e := range events {
		if r.Handle(e) {
			resized = true
		}
	}
	return resized
}

// Sync sets the known size without notifying targets, for use after the
// targets were allocated at size.
func (r *ResizeReactor) Sync(size Extent) { r.last = size }

// ViewportWatcher turns a polled size into discrete resize events.
type ViewportWatcher struct {
	last Extent
	seen bool
}

// Observe returns an event when size differs from the previously observed
// size. The first observation always produces an event.
func (w *ViewportWatcher) Observe(size Extent) (ResizeEvent, bool) {
	if w.seen && size == w.last {
		return ResizeEvent{}, false
	}
	w.seen = true
	w.last = size
	return ResizeEvent{Size: size}, true
}
