package main

// Layout spacing
const (
	layoutMargin      = 16.0
	layoutGap         = 8.0
	arrowButtonSize   = 36.0
	stripArrowWidth   = 28.0
	infoPanelHeight   = 380.0
	minMainImageH     = 200.0
	closeButtonSize   = 40.0
	zoomBadgeWidth    = 72.0
	zoomBadgeHeight   = 28.0
	mainImageFraction = 0.7
)

// Rect is an axis-aligned rectangle in screen pixels
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Layout places every part of the window. Page rects move with the page
// offset; modal rects are fixed to the window.
type Layout struct {
	Window Rect

	Gallery    Rect
	MainImage  Rect
	PrevArrow  Rect
	NextArrow  Rect
	Strip      Rect
	StripLeft  Rect
	StripRight Rect
	StripThumb Rect
	Info       Rect

	ContentHeight float64

	ModalImage      Rect
	ModalClose      Rect
	ModalPrev       Rect
	ModalNext       Rect
	ModalStrip      Rect
	ModalStripThumb Rect
	ZoomBadge       Rect
}

// ComputeLayout lays out a w by h window scrolled down by pageOffset
func ComputeLayout(w, h, pageOffset, thumbExtent float64) Layout {
	l := Layout{Window: Rect{0, 0, w, h}}
	contentW := max(w-2*layoutMargin, 0)

	mainH := max(h*mainImageFraction-thumbExtent, minMainImageH)
	top := layoutMargin - pageOffset
	l.MainImage = Rect{layoutMargin, top, contentW, mainH}
	midY := l.MainImage.Y + (mainH-arrowButtonSize)/2
	l.PrevArrow = Rect{l.MainImage.X + layoutGap, midY, arrowButtonSize, arrowButtonSize}
	l.NextArrow = Rect{l.MainImage.Right() - layoutGap - arrowButtonSize, midY, arrowButtonSize, arrowButtonSize}

	l.Strip = Rect{layoutMargin, l.MainImage.Bottom() + layoutGap, contentW, thumbExtent}
	l.StripLeft = Rect{l.Strip.X, l.Strip.Y, stripArrowWidth, thumbExtent}
	l.StripRight = Rect{l.Strip.Right() - stripArrowWidth, l.Strip.Y, stripArrowWidth, thumbExtent}
	l.StripThumb = Rect{l.Strip.X + stripArrowWidth, l.Strip.Y, max(contentW-2*stripArrowWidth, 0), thumbExtent}

	l.Gallery = Rect{layoutMargin, top, contentW, l.Strip.Bottom() - top}
	l.Info = Rect{layoutMargin, l.Gallery.Bottom() + 2*layoutGap, contentW, infoPanelHeight}
	l.ContentHeight = l.Info.Bottom() + pageOffset + layoutMargin

	modalStripY := h - layoutMargin - thumbExtent
	l.ModalStrip = Rect{layoutMargin, modalStripY, contentW, thumbExtent}
	l.ModalStripThumb = l.ModalStrip
	l.ModalImage = Rect{layoutMargin, layoutMargin + closeButtonSize, contentW, max(modalStripY-layoutGap-layoutMargin-closeButtonSize, 0)}
	l.ModalClose = Rect{w - layoutMargin - closeButtonSize, layoutMargin / 2, closeButtonSize, closeButtonSize}
	modalMidY := l.ModalImage.Y + (l.ModalImage.H-arrowButtonSize)/2
	l.ModalPrev = Rect{l.ModalImage.X + layoutGap, modalMidY, arrowButtonSize, arrowButtonSize}
	l.ModalNext = Rect{l.ModalImage.Right() - layoutGap - arrowButtonSize, modalMidY, arrowButtonSize, arrowButtonSize}
	l.ZoomBadge = Rect{l.ModalImage.X + layoutGap, l.ModalImage.Y + layoutGap, zoomBadgeWidth, zoomBadgeHeight}

	return l
}

// Control is a clickable part of the window
type Control int

const (
	ControlNone Control = iota
	ControlMainImage
	ControlPrevArrow
	ControlNextArrow
	ControlStripLeft
	ControlStripRight
	ControlThumb
	ControlModalClose
	ControlModalPrev
	ControlModalNext
	ControlModalThumb
	ControlModalImage
	ControlModalBackdrop
)

// HitTest finds the control under (x, y). For thumbnails the index is
// returned as well. Arrows only count while they are drawn.
func HitTest(l Layout, view GalleryView, strip, modalStrip *ThumbnailStrip, x, y float64) (Control, int) {
	count := len(view.Images)

	if view.ModalOpen {
		switch {
		case l.ModalClose.Contains(x, y):
			return ControlModalClose, 0
		case count > 1 && l.ModalPrev.Contains(x, y):
			return ControlModalPrev, 0
		case count > 1 && l.ModalNext.Contains(x, y):
			return ControlModalNext, 0
		case l.ModalStrip.Contains(x, y):
			// The strip swallows clicks that miss a thumbnail
			if i, ok := modalStrip.IndexAt(x-l.ModalStripThumb.X, view.ModalThumbCount); ok {
				return ControlModalThumb, i
			}
			return ControlNone, 0
		case l.ModalImage.Contains(x, y):
			return ControlModalImage, 0
		default:
			return ControlModalBackdrop, 0
		}
	}

	switch {
	case count > 1 && l.PrevArrow.Contains(x, y):
		return ControlPrevArrow, 0
	case count > 1 && l.NextArrow.Contains(x, y):
		return ControlNextArrow, 0
	case l.MainImage.Contains(x, y):
		if view.Empty {
			return ControlNone, 0
		}
		return ControlMainImage, 0
	case !view.ThumbsVisible:
		return ControlNone, 0
	case view.CanScrollLeft && l.StripLeft.Contains(x, y):
		return ControlStripLeft, 0
	case view.CanScrollRight && l.StripRight.Contains(x, y):
		return ControlStripRight, 0
	case l.StripThumb.Contains(x, y):
		if i, ok := strip.IndexAt(x-l.StripThumb.X, count); ok {
			return ControlThumb, i
		}
	}
	return ControlNone, 0
}

// RegionAt maps a window position to the innermost event region
func RegionAt(l Layout, modalOpen bool, x, y float64) Region {
	if modalOpen {
		if l.ModalStrip.Contains(x, y) {
			return RegionModalStrip
		}
		return RegionModal
	}
	switch {
	case l.Strip.Contains(x, y):
		return RegionMainStrip
	case l.Gallery.Contains(x, y):
		return RegionGallery
	default:
		return RegionWindow
	}
}

// ThumbRect is where thumbnail i is drawn inside the strip area
func ThumbRect(area Rect, offset, thumbExtent float64, i int) Rect {
	const pad = 4.0
	x := area.X + float64(i)*thumbExtent - offset
	return Rect{x + pad, area.Y + pad, thumbExtent - 2*pad, area.H - 2*pad}
}
