package main

const (
	defaultZoomMin         = 1.0
	defaultZoomMax         = 4.0
	defaultZoomSensitivity = 0.001
)

// Zoom is the modal image transform: a uniform scale around the container
// centre followed by a translation in screen pixels
type Zoom struct {
	Scale float64
	X     float64
	Y     float64
}

// IdentityZoom is the unzoomed, centred transform
func IdentityZoom() Zoom {
	return Zoom{Scale: 1}
}

// IsIdentity reports whether the transform leaves the image untouched
func (z Zoom) IsIdentity() bool {
	return z.Scale <= 1 && z.X == 0 && z.Y == 0
}

// clampTranslate keeps the scaled image covering the container on both axes
func (z *Zoom) clampTranslate(width, height float64) {
	if z.Scale <= 1 {
		z.X, z.Y = 0, 0
		return
	}
	maxX := (z.Scale - 1) * width / 2
	maxY := (z.Scale - 1) * height / 2
	z.X = clamp(z.X, -maxX, maxX)
	z.Y = clamp(z.Y, -maxY, maxY)
}

// ZoomLimits bounds the modal scale and sets how fast the wheel zooms
type ZoomLimits struct {
	Min         float64
	Max         float64
	Sensitivity float64
}

// DefaultZoomLimits returns the 1x to 4x range
func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{Min: defaultZoomMin, Max: defaultZoomMax, Sensitivity: defaultZoomSensitivity}
}

func (l ZoomLimits) normalized() ZoomLimits {
	if l.Min < 1 {
		l.Min = defaultZoomMin
	}
	if l.Max < l.Min {
		l.Max = l.Min
	}
	if l.Sensitivity <= 0 {
		l.Sensitivity = defaultZoomSensitivity
	}
	return l
}

// ModalState is whether the zoom modal is shown
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalOpen
)

// ZoomModal is the full-screen viewer with wheel zoom and drag pan
type ZoomModal struct {
	state  ModalState
	zoom   Zoom
	limits ZoomLimits

	containerW float64
	containerH float64

	dragging bool
	lastX    float64
	lastY    float64
}

// NewZoomModal creates a closed modal
func NewZoomModal(limits ZoomLimits) *ZoomModal {
	limits = limits.normalized()
	return &ZoomModal{
		zoom:   Zoom{Scale: limits.Min},
		limits: limits,
	}
}

// Open shows the modal. Returns false when already open.
func (m *ZoomModal) Open() bool {
	if m.state == ModalOpen {
		return false
	}
	m.state = ModalOpen
	m.ResetZoom()
	return true
}

// Close hides the modal and drops the zoom. Returns false when already closed.
func (m *ZoomModal) Close() bool {
	if m.state == ModalClosed {
		return false
	}
	m.state = ModalClosed
	m.ResetZoom()
	return true
}

func (m *ZoomModal) IsOpen() bool       { return m.state == ModalOpen }
func (m *ZoomModal) State() ModalState  { return m.state }
func (m *ZoomModal) Zoom() Zoom         { return m.zoom }
func (m *ZoomModal) Limits() ZoomLimits { return m.limits }
func (m *ZoomModal) Dragging() bool     { return m.dragging }

// ResetZoom returns to the identity transform and ends any drag
func (m *ZoomModal) ResetZoom() {
	m.zoom = Zoom{Scale: m.limits.Min}
	m.zoom.clampTranslate(m.containerW, m.containerH)
	m.dragging = false
}

// SetContainerSize records the image container size and re-clamps the pan
func (m *ZoomModal) SetContainerSize(width, height float64) {
	m.containerW = width
	m.containerH = height
	m.zoom.clampTranslate(width, height)
}

// ContainerSize returns the last recorded container size
func (m *ZoomModal) ContainerSize() (float64, float64) {
	return m.containerW, m.containerH
}

// OnWheel zooms out for positive deltaY and in for negative deltaY
func (m *ZoomModal) OnWheel(deltaY float64) bool {
	if m.state != ModalOpen {
		return false
	}
	if deltaY == 0 {
		return true
	}

	m.zoom.Scale = clamp(m.zoom.Scale-deltaY*m.limits.Sensitivity, m.limits.Min, m.limits.Max)
	m.zoom.clampTranslate(m.containerW, m.containerH)
	return true
}

// DragStart begins a pan at (x, y)
func (m *ZoomModal) DragStart(x, y float64) {
	if m.state != ModalOpen {
		return
	}
	m.dragging = true
	m.lastX, m.lastY = x, y
}

// DragMove pans by the pointer movement since the last event
func (m *ZoomModal) DragMove(x, y float64) bool {
	if !m.dragging {
		return false
	}
	m.zoom.X += x - m.lastX
	m.zoom.Y += y - m.lastY
	m.lastX, m.lastY = x, y
	m.zoom.clampTranslate(m.containerW, m.containerH)
	return true
}

// DragEnd stops panning
func (m *ZoomModal) DragEnd() {
	m.dragging = false
}
