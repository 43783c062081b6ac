package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// pageStepFraction is how much of the window PageUp and PageDown scroll
const pageStepFraction = 0.8

// ViewerOptions wires a Viewer
type ViewerOptions struct {
	Config       Config
	ConfigStatus ConfigLoadResult
	ConfigPath   string
	Product      *Product
	Loader       *ImageLoader
	Tracker      Tracker
	Currency     string
}

// Viewer is the ebiten game hosting one product page: the gallery, the
// info panel and the overlays. It owns the main image URL the gallery
// reports changes to.
type Viewer struct {
	config       Config
	configStatus ConfigLoadResult
	configPath   string
	product      *Product
	currency     string

	gallery  *Gallery
	registry *EventRegistry
	loader   *ImageLoader

	mainStrip  *ScrollViewport
	modalStrip *ScrollViewport
	page       *ScrollViewport

	keybindingManager *KeybindingManager
	inputHandler      *InputHandler
	renderer          *Renderer

	mainImageURL     string
	scrollSuppressed bool

	layout           Layout
	screenW, screenH int
	containerW       float64
	containerH       float64

	fullscreen bool
	savedWinW  int
	savedWinH  int

	showHelp bool
	showInfo bool

	overlayMessage     string
	overlayMessageTime time.Time

	exitRequested bool
}

// NewViewer builds the viewer and mounts the gallery on the product images
func NewViewer(opts ViewerOptions) *Viewer {
	v := &Viewer{
		config:       opts.Config,
		configStatus: opts.ConfigStatus,
		configPath:   opts.ConfigPath,
		product:      opts.Product,
		currency:     opts.Currency,
		loader:       opts.Loader,
		registry:     NewEventRegistry(),
		mainStrip:    NewScrollViewport(),
		modalStrip:   NewScrollViewport(),
		page:         NewScrollViewport(),
		fullscreen:   opts.Config.Fullscreen,
		showInfo:     true,
		screenW:      opts.Config.WindowWidth,
		screenH:      opts.Config.WindowHeight,
	}

	galleryOpts := GalleryOptions{
		Config:            opts.Config.GalleryConfig(),
		MainStrip:         v.mainStrip,
		ModalStrip:        v.modalStrip,
		Page:              v,
		Tracker:           opts.Tracker,
		OnMainImageChange: v.onMainImageChange,
	}
	// A nil *ImageLoader must not become a non-nil interface
	if opts.Loader != nil {
		galleryOpts.Loader = opts.Loader
	}
	v.gallery = NewGallery(galleryOpts)

	if v.configPath == "" {
		v.configPath = getConfigPath()
	}

	v.keybindingManager = NewKeybindingManager(opts.Config.Keybindings)
	v.inputHandler = NewInputHandler(v, v, v.keybindingManager)
	v.renderer = NewRenderer(v)

	var images []Image
	if v.product != nil {
		images = v.product.Images
		v.mainImageURL = v.product.MainImageURL()
	}
	v.layoutFor(len(images))
	v.gallery.Mount(v.registry, images, v.mainImageURL)
	v.updateLayout()

	return v
}

func (v *Viewer) onMainImageChange(url string) {
	debugLog("Main image changed to %s", url)
	v.mainImageURL = url
}

// MainImageURL is the owner's current main image
func (v *Viewer) MainImageURL() string {
	return v.mainImageURL
}

// SetMainImageURL changes the main image from outside the gallery
func (v *Viewer) SetMainImageURL(url string) {
	v.mainImageURL = url
	v.gallery.SetMainImageURL(url)
}

// Update implements ebiten.Game
func (v *Viewer) Update() error {
	if v.exitRequested || ebiten.IsWindowBeingClosed() {
		v.shutdown()
		return ebiten.Termination
	}

	if v.loader != nil {
		v.loader.Drain(func(res LoadResult) {
			v.gallery.HandleLoadResult(res)
		})
	}

	v.updateLayout()
	v.inputHandler.HandleInput()
	v.gallery.Tick(time.Now())
	v.updateLayout()

	return nil
}

// updateLayout recomputes geometry, feeds viewport extents and reports
// zoom container resizes
func (v *Viewer) updateLayout() {
	v.layoutFor(len(v.gallery.View().Images))

	w, h := v.layout.ModalImage.W, v.layout.ModalImage.H
	if w != v.containerW || h != v.containerH {
		v.containerW, v.containerH = w, h
		v.registry.Dispatch(InputEvent{Kind: EventResize, Region: RegionWindow, Width: w, Height: h})
	}
}

func (v *Viewer) layoutFor(imageCount int) {
	ext := v.config.ThumbExtent
	offset := v.page.ScrollOffset()
	v.layout = ComputeLayout(float64(v.screenW), float64(v.screenH), offset, ext)
	v.page.SetExtents(v.layout.ContentHeight, float64(v.screenH))
	if v.page.ScrollOffset() != offset {
		v.layout = ComputeLayout(float64(v.screenW), float64(v.screenH), v.page.ScrollOffset(), ext)
	}

	// Both strips measure the full image count so centring works before
	// the modal thumbnails are attached
	content := float64(imageCount) * ext
	v.mainStrip.SetExtents(content, v.layout.StripThumb.W)
	v.modalStrip.SetExtents(content, v.layout.ModalStripThumb.W)
}

func (v *Viewer) shutdown() {
	v.gallery.Unmount()
	v.saveCurrentWindowSize()
}

func (v *Viewer) saveCurrentWindowSize() {
	w, h := v.savedWinW, v.savedWinH
	if !v.fullscreen {
		w, h = ebiten.WindowSize()
	}
	v.saveWindowSize(w, h)
}

// saveWindowSize writes the config back to the file it was loaded from.
// In fullscreen, w and h are the size from before fullscreen.
func (v *Viewer) saveWindowSize(w, h int) {
	if w > 0 && h > 0 {
		v.config.WindowWidth = w
		v.config.WindowHeight = h
	}
	v.config.Fullscreen = v.fullscreen
	saveConfigToPath(v.config, v.configPath)
}

// Draw implements ebiten.Game
func (v *Viewer) Draw(screen *ebiten.Image) {
	v.renderer.Draw(screen)
}

// Layout implements ebiten.Game
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.screenW, v.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// SetScrollSuppressed implements PageScroller
func (v *Viewer) SetScrollSuppressed(suppressed bool) {
	v.scrollSuppressed = suppressed
}

// InputActions implementation

func (v *Viewer) Exit() {
	v.exitRequested = true
}

func (v *Viewer) ToggleHelp() {
	v.showHelp = !v.showHelp
}

func (v *Viewer) ToggleInfo() {
	v.showInfo = !v.showInfo
}

func (v *Viewer) ToggleFullscreen() {
	v.fullscreen = !v.fullscreen
	if v.fullscreen {
		v.savedWinW, v.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if v.savedWinW > 0 && v.savedWinH > 0 {
		ebiten.SetWindowSize(v.savedWinW, v.savedWinH)
	}
}

func (v *Viewer) NavigateNext()     { v.gallery.Next() }
func (v *Viewer) NavigatePrevious() { v.gallery.Previous() }

func (v *Viewer) JumpFirst() {
	if v.gallery.First() {
		v.ShowOverlayMessage("First image")
	}
}

func (v *Viewer) JumpLast() {
	if v.gallery.Last() {
		v.ShowOverlayMessage("Last image")
	}
}

func (v *Viewer) ScrollThumbnailsLeft() {
	if v.IsModalOpen() {
		v.gallery.ScrollModalStripLeft()
		return
	}
	v.gallery.ScrollStripLeft()
}

func (v *Viewer) ScrollThumbnailsRight() {
	if v.IsModalOpen() {
		v.gallery.ScrollModalStripRight()
		return
	}
	v.gallery.ScrollStripRight()
}

func (v *Viewer) OpenZoom() {
	if !v.gallery.OpenModal() && v.GetTotalImagesCount() == 0 {
		v.ShowOverlayMessage("No images")
	}
}

func (v *Viewer) CloseZoom() {
	v.gallery.CloseModal()
}

func (v *Viewer) ZoomBy(deltaY float64) {
	v.gallery.ZoomBy(deltaY)
}

func (v *Viewer) ScrollPage(delta float64) {
	if v.scrollSuppressed {
		return
	}
	v.page.ScrollBy(delta)
}

// ClickAt activates the control under (x, y)
func (v *Viewer) ClickAt(x, y float64) {
	control, index := HitTest(v.layout, v.gallery.View(), v.gallery.Strip(), v.gallery.ModalStrip(), x, y)
	switch control {
	case ControlPrevArrow:
		v.gallery.Previous()
	case ControlNextArrow:
		v.gallery.Next()
	case ControlMainImage:
		v.gallery.OpenModal()
	case ControlStripLeft:
		v.gallery.ScrollStripLeft()
	case ControlStripRight:
		v.gallery.ScrollStripRight()
	case ControlThumb, ControlModalThumb:
		v.gallery.SelectIndex(index)
	case ControlModalPrev:
		v.gallery.ModalPrevious()
	case ControlModalNext:
		v.gallery.ModalNext()
	case ControlModalClose, ControlModalBackdrop:
		v.CloseZoom()
	}
}

func (v *Viewer) RegionAt(x, y float64) Region {
	return RegionAt(v.layout, v.IsModalOpen(), x, y)
}

func (v *Viewer) Dispatch(ev InputEvent) bool {
	return v.registry.Dispatch(ev)
}

func (v *Viewer) ShowOverlayMessage(message string) {
	v.overlayMessage = message
	v.overlayMessageTime = time.Now()
}

func (v *Viewer) GetTotalImagesCount() int {
	return len(v.gallery.View().Images)
}

// InputState implementation

func (v *Viewer) IsModalOpen() bool               { return v.gallery.View().ModalOpen }
func (v *Viewer) IsPageScrollSuppressed() bool    { return v.scrollSuppressed }
func (v *Viewer) PageStep() float64               { return float64(v.screenH) * pageStepFraction }
func (v *Viewer) ScreenSize() (int, int)          { return v.screenW, v.screenH }
func (v *Viewer) GetMouseSettings() MouseSettings { return v.config.Mouse }

// RenderState implementation

func (v *Viewer) GetGalleryView() GalleryView { return v.gallery.View() }
func (v *Viewer) GetLayout() Layout           { return v.layout }
func (v *Viewer) GetProduct() *Product        { return v.product }
func (v *Viewer) GetCurrency() string         { return v.currency }
func (v *Viewer) IsFullscreen() bool          { return v.fullscreen }
func (v *Viewer) IsShowingHelp() bool         { return v.showHelp }
func (v *Viewer) IsShowingInfo() bool         { return v.showInfo }

func (v *Viewer) GetTexture(src string) (*ebiten.Image, bool) {
	if v.loader == nil {
		return nil, false
	}
	return v.loader.Texture(src)
}

func (v *Viewer) GetOverlayMessage() string             { return v.overlayMessage }
func (v *Viewer) GetOverlayMessageTime() time.Time      { return v.overlayMessageTime }
func (v *Viewer) GetFontSize() float64                  { return v.config.HelpFontSize }
func (v *Viewer) GetConfigStatus() ConfigLoadResult     { return v.configStatus }
func (v *Viewer) GetKeybindings() map[string][]string   { return v.keybindingManager.GetKeybindings() }
func (v *Viewer) GetMouseGestures() map[string][]string { return GetMouseGestures() }
