package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// RenderState provides read-only access to viewer state for the renderer
type RenderState interface {
	// Gallery
	GetGalleryView() GalleryView
	GetTexture(src string) (*ebiten.Image, bool)
	GetLayout() Layout
	GetProduct() *Product
	GetCurrency() string

	// UI state
	IsFullscreen() bool
	IsShowingHelp() bool
	IsShowingInfo() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMouseGestures() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// Navigation
	NavigateNext()
	NavigatePrevious()
	JumpFirst()
	JumpLast()
	ScrollThumbnailsLeft()
	ScrollThumbnailsRight()

	// Zoom viewer
	OpenZoom()
	CloseZoom()
	ZoomBy(deltaY float64)

	// Page
	ScrollPage(delta float64)

	// Pointer and region events
	ClickAt(x, y float64)
	RegionAt(x, y float64) Region
	Dispatch(ev InputEvent) bool

	// Messages
	ShowOverlayMessage(message string)

	// Common data access
	GetTotalImagesCount() int
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsModalOpen() bool
	IsPageScrollSuppressed() bool
	PageStep() float64
	ScreenSize() (int, int)
	GetMouseSettings() MouseSettings
}
