package main

import "math"

// PointerFrame is the mouse state sampled once per update
type PointerFrame struct {
	X, Y         float64
	Inside       bool
	JustPressed  bool
	JustReleased bool
}

// PointerTracker turns per-frame mouse samples into pointer events and
// detects clicks. A press that travels further than the drag threshold is a
// drag, not a click.
type PointerTracker struct {
	threshold float64

	hasLast    bool
	lastX      float64
	lastY      float64
	lastRegion Region
	inside     bool

	pressed bool
	pressX  float64
	pressY  float64
	moved   bool
}

// NewPointerTracker creates a tracker with the given drag threshold in pixels
func NewPointerTracker(threshold float64) *PointerTracker {
	return &PointerTracker{threshold: max(threshold, 0)}
}

// Pressed reports whether the left button is held
func (p *PointerTracker) Pressed() bool {
	return p.pressed
}

// Step consumes one frame. It returns the events to dispatch in order and
// whether the frame completed a click at (clickX, clickY).
func (p *PointerTracker) Step(f PointerFrame, regionAt func(x, y float64) Region) (events []InputEvent, click bool, clickX, clickY float64) {
	if !f.Inside {
		if p.inside {
			events = append(events, InputEvent{Kind: EventPointerLeave, Region: p.lastRegion, X: p.lastX, Y: p.lastY})
		}
		p.inside = false
		if f.JustReleased && p.pressed {
			p.pressed = false
			events = append(events, InputEvent{Kind: EventPointerUp, Region: p.lastRegion, X: p.lastX, Y: p.lastY})
		}
		return events, false, 0, 0
	}

	region := regionAt(f.X, f.Y)
	if p.inside && region != p.lastRegion {
		events = append(events, InputEvent{Kind: EventPointerLeave, Region: p.lastRegion, X: f.X, Y: f.Y})
	}
	p.inside = true

	if f.JustPressed {
		p.pressed = true
		p.pressX, p.pressY = f.X, f.Y
		p.moved = false
		events = append(events, InputEvent{Kind: EventPointerDown, Region: region, X: f.X, Y: f.Y})
	} else if p.hasLast && (f.X != p.lastX || f.Y != p.lastY) {
		events = append(events, InputEvent{Kind: EventPointerMove, Region: region, X: f.X, Y: f.Y})
		if p.pressed && math.Hypot(f.X-p.pressX, f.Y-p.pressY) > p.threshold {
			p.moved = true
		}
	}

	if f.JustReleased && p.pressed {
		p.pressed = false
		events = append(events, InputEvent{Kind: EventPointerUp, Region: region, X: f.X, Y: f.Y})
		if !p.moved {
			click, clickX, clickY = true, p.pressX, p.pressY
		}
	}

	p.hasLast = true
	p.lastX, p.lastY = f.X, f.Y
	p.lastRegion = region
	return events, click, clickX, clickY
}
