package main

// Viewport is a one-dimensional scroll container
type Viewport interface {
	ScrollOffset() float64
	ContentExtent() float64
	ViewportExtent() float64
	ScrollTo(offset float64)
}

// ScrollViewport is an in-memory Viewport whose offset is kept in [0, MaxOffset]
type ScrollViewport struct {
	offset   float64
	content  float64
	viewport float64
}

// NewScrollViewport creates an empty viewport
func NewScrollViewport() *ScrollViewport {
	return &ScrollViewport{}
}

// SetExtents updates the content and visible sizes and re-clamps the offset
func (v *ScrollViewport) SetExtents(content, viewport float64) {
	v.content = max(content, 0)
	v.viewport = max(viewport, 0)
	v.clamp()
}

func (v *ScrollViewport) ScrollOffset() float64   { return v.offset }
func (v *ScrollViewport) ContentExtent() float64  { return v.content }
func (v *ScrollViewport) ViewportExtent() float64 { return v.viewport }

// ScrollTo moves to offset, clamped to the scrollable range
func (v *ScrollViewport) ScrollTo(offset float64) {
	v.offset = offset
	v.clamp()
}

// ScrollBy moves the offset by delta
func (v *ScrollViewport) ScrollBy(delta float64) {
	v.ScrollTo(v.offset + delta)
}

// MaxOffset is the largest reachable offset
func (v *ScrollViewport) MaxOffset() float64 {
	return max(v.content-v.viewport, 0)
}

// CanScroll reports whether the content overflows the viewport
func (v *ScrollViewport) CanScroll() bool {
	return v.content > v.viewport
}

func (v *ScrollViewport) clamp() {
	v.offset = clamp(v.offset, 0, v.MaxOffset())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
