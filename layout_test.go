package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(1200, 900, 0, 108)

	assert.Equal(t, Rect{16, 16, 1168, 522}, l.MainImage)
	assert.Equal(t, Rect{24, 259, 36, 36}, l.PrevArrow)
	assert.Equal(t, Rect{1140, 259, 36, 36}, l.NextArrow)
	assert.Equal(t, Rect{16, 546, 1168, 108}, l.Strip)
	assert.Equal(t, Rect{44, 546, 1112, 108}, l.StripThumb)
	assert.Equal(t, Rect{16, 16, 1168, 638}, l.Gallery)
	assert.Equal(t, 1066.0, l.ContentHeight)

	assert.Equal(t, Rect{16, 776, 1168, 108}, l.ModalStrip)
	assert.Equal(t, Rect{16, 56, 1168, 712}, l.ModalImage)
	assert.Equal(t, Rect{1144, 8, 40, 40}, l.ModalClose)
}

func TestComputeLayoutScrolled(t *testing.T) {
	l := ComputeLayout(1200, 900, 300, 108)
	base := ComputeLayout(1200, 900, 0, 108)

	assert.Equal(t, base.MainImage.Y-300, l.MainImage.Y)
	assert.Equal(t, base.Info.Y-300, l.Info.Y)
	assert.Equal(t, base.ContentHeight, l.ContentHeight, "content height does not depend on the offset")
	assert.Equal(t, base.ModalImage, l.ModalImage, "the modal is fixed to the window")

	small := ComputeLayout(400, 200, 0, 108)
	assert.Equal(t, minMainImageH, small.MainImage.H)
}

func hitTestFixture() (Layout, GalleryView, *ThumbnailStrip, *ThumbnailStrip) {
	l := ComputeLayout(1200, 900, 0, 108)

	mainVP := NewScrollViewport()
	mainVP.SetExtents(5*108, l.StripThumb.W)
	modalVP := NewScrollViewport()
	modalVP.SetExtents(5*108, l.ModalStripThumb.W)

	view := GalleryView{
		Images:          productImages(5),
		ThumbsVisible:   true,
		CanScrollRight:  true,
		ModalThumbCount: 1,
	}
	return l, view, NewThumbnailStrip(mainVP, 108, 120), NewThumbnailStrip(modalVP, 108, 120)
}

func TestHitTestPage(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(v *GalleryView)
		x, y          float64
		expected      Control
		expectedIndex int
	}{
		{"PrevArrow", nil, 30, 270, ControlPrevArrow, 0},
		{"NextArrow", nil, 1150, 270, ControlNextArrow, 0},
		{"ArrowsHiddenForOneImage", func(v *GalleryView) { v.Images = v.Images[:1] }, 30, 270, ControlMainImage, 0},
		{"MainImage", nil, 600, 300, ControlMainImage, 0},
		{"EmptyMainImage", func(v *GalleryView) { v.Images = nil; v.Empty = true }, 600, 300, ControlNone, 0},
		{"HiddenLeftArrow", nil, 30, 600, ControlNone, 0},
		{"RightArrow", nil, 1170, 600, ControlStripRight, 0},
		{"Thumb", nil, 270, 600, ControlThumb, 2},
		{"ThumbPastEnd", nil, 800, 600, ControlNone, 0},
		{"ThumbsHidden", func(v *GalleryView) { v.ThumbsVisible = false }, 270, 600, ControlNone, 0},
		{"InfoPanel", nil, 600, 800, ControlNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, view, strip, modalStrip := hitTestFixture()
			if tt.mutate != nil {
				tt.mutate(&view)
			}
			control, index := HitTest(l, view, strip, modalStrip, tt.x, tt.y)
			assert.Equal(t, tt.expected, control)
			assert.Equal(t, tt.expectedIndex, index)
		})
	}
}

func TestHitTestModal(t *testing.T) {
	tests := []struct {
		name          string
		thumbCount    int
		x, y          float64
		expected      Control
		expectedIndex int
	}{
		{"Close", 1, 1150, 20, ControlModalClose, 0},
		{"Prev", 1, 30, 400, ControlModalPrev, 0},
		{"Next", 1, 1150, 400, ControlModalNext, 0},
		{"Image", 1, 600, 400, ControlModalImage, 0},
		{"ActiveThumb", 1, 66, 800, ControlModalThumb, 0},
		{"UnattachedThumb", 1, 316, 800, ControlNone, 0},
		{"PastLastThumb", 5, 1000, 800, ControlNone, 0},
		{"AttachedThumb", 5, 316, 800, ControlModalThumb, 2},
		{"Gap", 1, 600, 772, ControlModalBackdrop, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, view, strip, modalStrip := hitTestFixture()
			view.ModalOpen = true
			view.ModalThumbCount = tt.thumbCount
			control, index := HitTest(l, view, strip, modalStrip, tt.x, tt.y)
			assert.Equal(t, tt.expected, control)
			assert.Equal(t, tt.expectedIndex, index)
		})
	}
}

func TestRegionAt(t *testing.T) {
	l := ComputeLayout(1200, 900, 0, 108)

	tests := []struct {
		name      string
		modalOpen bool
		x, y      float64
		expected  Region
	}{
		{"Image", false, 600, 300, RegionGallery},
		{"Strip", false, 600, 600, RegionMainStrip},
		{"Info", false, 600, 800, RegionWindow},
		{"Margin", false, 5, 300, RegionWindow},
		{"ModalImage", true, 600, 300, RegionModal},
		{"ModalStrip", true, 600, 800, RegionModalStrip},
		{"ModalOverPageStrip", true, 600, 600, RegionModal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RegionAt(l, tt.modalOpen, tt.x, tt.y), tt.name)
	}
}

func TestThumbRect(t *testing.T) {
	area := Rect{44, 546, 1112, 108}
	assert.Equal(t, Rect{48, 550, 100, 100}, ThumbRect(area, 0, 108, 0))
	assert.Equal(t, Rect{48 + 216 - 50, 550, 100, 100}, ThumbRect(area, 50, 108, 2))
}
