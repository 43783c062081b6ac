package main

import "math"

const (
	// scrollEdgeEpsilon hides the right arrow when the strip is within this many pixels of its end
	scrollEdgeEpsilon = 10.0

	defaultThumbExtent    = 108.0
	defaultStripStep      = 120.0
	defaultModalStripStep = 100.0
)

// ThumbnailStrip controls a horizontally scrolling row of thumbnails. Its
// scroll offset is independent of the selected index.
type ThumbnailStrip struct {
	viewport    Viewport
	thumbExtent float64
	step        float64

	dragging        bool
	dragStartX      float64
	dragStartOffset float64
}

// NewThumbnailStrip creates a strip over viewport whose arrows move by step
func NewThumbnailStrip(viewport Viewport, thumbExtent, step float64) *ThumbnailStrip {
	if thumbExtent <= 0 {
		thumbExtent = defaultThumbExtent
	}
	if step <= 0 {
		step = defaultStripStep
	}
	return &ThumbnailStrip{
		viewport:    viewport,
		thumbExtent: thumbExtent,
		step:        step,
	}
}

func (t *ThumbnailStrip) Viewport() Viewport   { return t.viewport }
func (t *ThumbnailStrip) ThumbExtent() float64 { return t.thumbExtent }
func (t *ThumbnailStrip) Offset() float64      { return t.viewport.ScrollOffset() }
func (t *ThumbnailStrip) Dragging() bool       { return t.dragging }

// CanScrollLeft reports whether the left arrow is shown
func (t *ThumbnailStrip) CanScrollLeft() bool {
	return t.viewport.ScrollOffset() > 0
}

// CanScrollRight reports whether the right arrow is shown
func (t *ThumbnailStrip) CanScrollRight() bool {
	v := t.viewport
	return v.ScrollOffset() < v.ContentExtent()-v.ViewportExtent()-scrollEdgeEpsilon
}

// ScrollLeft moves the strip one step towards the start
func (t *ThumbnailStrip) ScrollLeft() {
	t.scrollBy(-t.step)
}

// ScrollRight moves the strip one step towards the end
func (t *ThumbnailStrip) ScrollRight() {
	t.scrollBy(t.step)
}

func (t *ThumbnailStrip) scrollBy(delta float64) {
	t.viewport.ScrollTo(t.viewport.ScrollOffset() + delta)
}

// PointerDown starts a drag at x
func (t *ThumbnailStrip) PointerDown(x float64) {
	t.dragging = true
	t.dragStartX = x
	t.dragStartOffset = t.viewport.ScrollOffset()
}

// PointerMove drags the strip so the content follows the pointer
func (t *ThumbnailStrip) PointerMove(x float64) bool {
	if !t.dragging {
		return false
	}
	t.viewport.ScrollTo(t.dragStartOffset - (x - t.dragStartX))
	return true
}

// PointerUp ends a drag. Also used when the pointer leaves the strip.
func (t *ThumbnailStrip) PointerUp() {
	t.dragging = false
}

// Wheel scrolls the strip horizontally. Vertical intent is redirected
// sideways. Returns true when the event was consumed.
func (t *ThumbnailStrip) Wheel(deltaX, deltaY float64) bool {
	switch {
	case math.Abs(deltaY) > math.Abs(deltaX):
		t.scrollBy(deltaY)
	case deltaX != 0:
		t.scrollBy(deltaX)
	default:
		return false
	}
	return true
}

// CenterOn scrolls so the thumbnail at index sits third from the left
func (t *ThumbnailStrip) CenterOn(index int) {
	t.viewport.ScrollTo(math.Max(0, float64(index)*t.thumbExtent-2*t.thumbExtent))
}

// IndexAt maps a position along the strip (relative to its left edge) to a
// thumbnail index
func (t *ThumbnailStrip) IndexAt(x float64, count int) (int, bool) {
	if x < 0 || x > t.viewport.ViewportExtent() {
		return 0, false
	}
	i := int(math.Floor((x + t.viewport.ScrollOffset()) / t.thumbExtent))
	if i < 0 || i >= count {
		return 0, false
	}
	return i, true
}

// Reset scrolls back to the start and drops any drag
func (t *ThumbnailStrip) Reset() {
	t.dragging = false
	t.viewport.ScrollTo(0)
}
