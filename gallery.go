package main

import (
	"time"
)

// Deferral names
const (
	deferThumbReveal       = "thumb_reveal"
	deferModalThumbsAttach = "modal_thumbs_attach"
)

const (
	defaultThumbRevealDelay = 300 * time.Millisecond
	defaultModalAttachDelay = 200 * time.Millisecond
	defaultPreloadCount     = 4
)

// GalleryConfig holds the tunables of a Gallery
type GalleryConfig struct {
	Zoom             ZoomLimits
	ThumbExtent      float64
	StripStep        float64
	ModalStripStep   float64
	ThumbRevealDelay time.Duration
	ModalAttachDelay time.Duration
	PreloadCount     int
}

// DefaultGalleryConfig returns the stock gallery settings
func DefaultGalleryConfig() GalleryConfig {
	return GalleryConfig{
		Zoom:             DefaultZoomLimits(),
		ThumbExtent:      defaultThumbExtent,
		StripStep:        defaultStripStep,
		ModalStripStep:   defaultModalStripStep,
		ThumbRevealDelay: defaultThumbRevealDelay,
		ModalAttachDelay: defaultModalAttachDelay,
		PreloadCount:     defaultPreloadCount,
	}
}

// ImageRequester starts asynchronous image loads. Request must report back
// through Gallery.HandleLoadResult with the same token.
type ImageRequester interface {
	Request(token LoadToken, src string)
	Preload(srcs []string)
}

// PageScroller is the scrollable page hosting the gallery
type PageScroller interface {
	SetScrollSuppressed(suppressed bool)
}

// GalleryOptions wires a Gallery to its host
type GalleryOptions struct {
	Config            GalleryConfig
	MainStrip         Viewport
	ModalStrip        Viewport
	Loader            ImageRequester
	Page              PageScroller
	Tracker           Tracker
	OnMainImageChange func(url string)
	Now               func() time.Time
}

// GalleryView is a read-only snapshot for drawing
type GalleryView struct {
	Images            []Image
	Index             int
	Status            LoadStatus
	RenderedSrc       string
	Empty             bool
	ScrollLockEngaged bool
	ModalOpen         bool
	Zoom              Zoom
	ThumbsVisible     bool
	ModalThumbCount   int

	StripOffset         float64
	CanScrollLeft       bool
	CanScrollRight      bool
	ModalStripOffset    float64
	ModalCanScrollLeft  bool
	ModalCanScrollRight bool
}

// Gallery composes selection, wheel paging, the thumbnail strips and the zoom
// modal. Every method runs on the update goroutine.
type Gallery struct {
	cfg GalleryConfig

	selection  *SelectionController
	pager      *ScrollPager
	strip      *ThumbnailStrip
	modalStrip *ThumbnailStrip
	modal      *ZoomModal
	deferrals  *Deferrals

	loader  ImageRequester
	page    PageScroller
	tracker Tracker
	now     func() time.Time

	onMainImageChange func(url string)
	mainURL           string

	registry     *EventRegistry
	handles      []ListenerHandle
	modalHandles []ListenerHandle
	mounted      bool

	thumbsVisible bool
	modalAttached bool
}

// NewGallery creates an unmounted gallery
func NewGallery(opts GalleryOptions) *Gallery {
	cfg := opts.Config
	if cfg.ThumbExtent <= 0 {
		cfg = DefaultGalleryConfig()
	}

	g := &Gallery{
		cfg:               cfg,
		pager:             NewScrollPager(),
		modal:             NewZoomModal(cfg.Zoom),
		deferrals:         NewDeferrals(),
		loader:            opts.Loader,
		page:              opts.Page,
		tracker:           opts.Tracker,
		now:               opts.Now,
		onMainImageChange: opts.OnMainImageChange,
	}

	mainStrip, modalStrip := opts.MainStrip, opts.ModalStrip
	if mainStrip == nil {
		mainStrip = NewScrollViewport()
	}
	if modalStrip == nil {
		modalStrip = NewScrollViewport()
	}
	g.strip = NewThumbnailStrip(mainStrip, cfg.ThumbExtent, cfg.StripStep)
	g.modalStrip = NewThumbnailStrip(modalStrip, cfg.ThumbExtent, cfg.ModalStripStep)

	if g.loader == nil {
		g.loader = nopRequester{}
	}
	if g.page == nil {
		g.page = nopPage{}
	}
	if g.tracker == nil {
		g.tracker = NopTracker{}
	}
	if g.now == nil {
		g.now = time.Now
	}

	g.selection = NewSelectionController(g.emitMainImage)
	g.selection.SetTransitionHook(g.onTransition)

	return g
}

// Mount attaches the gallery's listeners to registry and shows images,
// starting at the image whose Src is mainURL
func (g *Gallery) Mount(registry *EventRegistry, images []Image, mainURL string) {
	if g.mounted {
		g.Unmount()
	}
	g.registry = registry
	g.mounted = true

	g.handles = append(g.handles,
		registry.On(EventWheel, RegionGallery, g.handleGalleryWheel),
		registry.On(EventWheel, RegionMainStrip, g.handleStripWheel),
		registry.On(EventPointerDown, RegionMainStrip, g.handleStripPointerDown),
		registry.On(EventPointerMove, RegionMainStrip, g.handleStripPointerMove),
		registry.On(EventPointerUp, RegionMainStrip, g.handleStripPointerEnd),
		registry.On(EventPointerLeave, RegionMainStrip, g.handleStripPointerEnd),
		registry.On(EventResize, RegionWindow, g.handleResize),
	)

	g.mainURL = mainURL
	g.reset(images)
	debugLog("Gallery mounted with %d images (%d listeners)", len(images), registry.Len())
}

// Unmount releases every listener and pending deferral
func (g *Gallery) Unmount() {
	if !g.mounted {
		return
	}
	defer func() {
		g.mounted = false
		g.registry = nil
	}()

	g.closeModal(false)
	for _, h := range g.handles {
		h.Remove()
	}
	g.handles = nil
	g.deferrals.CancelAll()
	g.strip.PointerUp()
}

// Mounted reports whether the gallery is attached
func (g *Gallery) Mounted() bool {
	return g.mounted
}

// SetImages replaces the image list. A different list resets all view
// state; the same list is ignored.
func (g *Gallery) SetImages(images []Image) bool {
	if sameImages(g.selection.Images(), images) {
		return false
	}
	g.reset(images)
	return true
}

func sameImages(a, b []Image) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// SetMainImageURL applies an owner-driven change of the main image
func (g *Gallery) SetMainImageURL(url string) bool {
	g.mainURL = url
	return g.reconcile()
}

// reconcile brings the selection in line with the owner's URL. On external
// change the URL wins. Internal navigation never comes through here: it
// writes out through emitMainImage.
func (g *Gallery) reconcile() bool {
	return g.selection.OnExternalMainImageChange(g.mainURL)
}

func (g *Gallery) emitMainImage(url string) {
	g.mainURL = url
	if g.onMainImageChange != nil {
		g.onMainImageChange(url)
	}
}

// MainImageURL returns the last URL seen from or sent to the owner
func (g *Gallery) MainImageURL() string {
	return g.mainURL
}

func (g *Gallery) reset(images []Image) {
	g.deferrals.CancelAll()
	g.closeModal(false)
	g.modal.ResetZoom()
	g.pager.Rearm()
	g.strip.Reset()
	g.modalStrip.Reset()
	g.thumbsVisible = false
	g.modalAttached = false

	tok := g.selection.Reset(images, g.mainURL)
	if len(images) == 0 {
		return
	}
	g.modalStrip.CenterOn(g.selection.Index())
	g.requestLoad(tok)
}

func (g *Gallery) onTransition(t Transition) {
	// Staggered reveals restart once the new primary image settles
	g.deferrals.CancelAll()
	g.modal.ResetZoom()
	g.pager.Rearm()
	g.modalStrip.CenterOn(t.To)

	ev := AnalyticsEvent{
		Event:     TrackGalleryNavigate,
		Index:     t.To,
		FromIndex: t.From,
		External:  !t.Emitted,
	}
	if img, ok := g.selection.Current(); ok {
		ev.ImageID = img.ID
	}
	g.tracker.Track(ev)

	g.requestLoad(t.Token)
}

func (g *Gallery) requestLoad(tok LoadToken) {
	img, ok := g.selection.Current()
	if !ok {
		return
	}
	if img.Src == "" {
		g.ReportLoadFailure(tok, errEmptySource)
		return
	}
	g.loader.Request(tok, img.Src)
}

// HandleLoadResult applies a completion from the image loader
func (g *Gallery) HandleLoadResult(res LoadResult) bool {
	if !res.Primary {
		return false
	}
	if res.Err != nil {
		return g.ReportLoadFailure(res.Token, res.Err)
	}
	return g.ReportLoadSuccess(res.Token)
}

// ReportLoadSuccess marks the primary image loaded. Stale tokens are ignored.
func (g *Gallery) ReportLoadSuccess(tok LoadToken) bool {
	if !g.selection.ReportLoadSuccess(tok) {
		debugLog("Dropping stale load success for index %d gen %d", tok.Index, tok.Gen)
		return false
	}

	img, _ := g.selection.Current()
	g.tracker.Track(AnalyticsEvent{
		Event:   TrackGalleryViewImage,
		ImageID: img.ID,
		Index:   tok.Index,
	})
	g.afterSettle()
	return true
}

// ReportLoadFailure marks the primary image errored. Stale tokens are ignored.
func (g *Gallery) ReportLoadFailure(tok LoadToken, err error) bool {
	if !g.selection.ReportLoadFailure(tok) {
		debugLog("Dropping stale load failure for index %d gen %d", tok.Index, tok.Gen)
		return false
	}
	warnLog("Image %d failed to load, showing placeholder: %v", tok.Index+1, err)
	g.afterSettle()
	return true
}

// afterSettle schedules the work held back until the primary image settles
func (g *Gallery) afterSettle() {
	now := g.now()
	if !g.thumbsVisible {
		g.deferrals.Schedule(deferThumbReveal, now.Add(g.cfg.ThumbRevealDelay), g.revealThumbs)
	}
	if !g.modalAttached && g.selection.Len() > 1 {
		g.deferrals.Schedule(deferModalThumbsAttach, now.Add(g.cfg.ModalAttachDelay), g.attachModalThumbs)
	}
	if srcs := g.preloadSources(g.cfg.PreloadCount); len(srcs) > 0 {
		g.loader.Preload(srcs)
	}
}

func (g *Gallery) revealThumbs() {
	g.thumbsVisible = true
	if srcs := g.preloadSources(g.selection.Len()); len(srcs) > 0 {
		g.loader.Preload(srcs)
	}
}

func (g *Gallery) attachModalThumbs() {
	g.modalAttached = true
	g.modalStrip.CenterOn(g.selection.Index())
}

// preloadSources lists up to limit non-empty sources other than the
// selected one, nearest first, alternating forward and backward
func (g *Gallery) preloadSources(limit int) []string {
	images := g.selection.Images()
	current := g.selection.Index()
	var srcs []string
	for d := 1; len(srcs) < limit && d < len(images); d++ {
		for _, i := range []int{current + d, current - d} {
			if i < 0 || i >= len(images) || len(srcs) >= limit {
				continue
			}
			if src := images[i].Src; src != "" {
				srcs = append(srcs, src)
			}
		}
	}
	return srcs
}

// Tick fires due deferrals
func (g *Gallery) Tick(now time.Time) int {
	return g.deferrals.Fire(now)
}

// Navigation

func (g *Gallery) SelectIndex(i int) bool { return g.selection.SelectIndex(i) }
func (g *Gallery) Next() bool             { return g.selection.Next() }
func (g *Gallery) Previous() bool         { return g.selection.Previous() }

// First selects the first image
func (g *Gallery) First() bool {
	return g.selection.SelectIndex(0)
}

// Last selects the last image
func (g *Gallery) Last() bool {
	return g.selection.SelectIndex(g.selection.Len() - 1)
}

// Thumbnail strips

func (g *Gallery) ScrollStripLeft()       { g.strip.ScrollLeft() }
func (g *Gallery) ScrollStripRight()      { g.strip.ScrollRight() }
func (g *Gallery) ScrollModalStripLeft()  { g.modalStrip.ScrollLeft() }
func (g *Gallery) ScrollModalStripRight() { g.modalStrip.ScrollRight() }

// Strip returns the main thumbnail strip
func (g *Gallery) Strip() *ThumbnailStrip { return g.strip }

// ModalStrip returns the modal thumbnail strip
func (g *Gallery) ModalStrip() *ThumbnailStrip { return g.modalStrip }

// Modal

// OpenModal shows the zoom modal. Not available without images.
func (g *Gallery) OpenModal() bool {
	if g.selection.Len() == 0 || !g.mounted {
		return false
	}
	if !g.modal.Open() {
		return false
	}

	g.modalHandles = append(g.modalHandles,
		g.registry.On(EventKey, RegionWindow, g.handleModalKey),
		g.registry.On(EventWheel, RegionModal, g.handleModalWheel),
		g.registry.On(EventPointerDown, RegionModal, g.handleModalPointerDown),
		g.registry.On(EventPointerMove, RegionModal, g.handleModalPointerMove),
		g.registry.On(EventPointerUp, RegionModal, g.handleModalPointerEnd),
		g.registry.On(EventPointerLeave, RegionModal, g.handleModalPointerEnd),
		g.registry.On(EventWheel, RegionModalStrip, g.handleModalStripWheel),
		g.registry.On(EventPointerDown, RegionModalStrip, g.handleModalStripPointerDown),
		g.registry.On(EventPointerMove, RegionModalStrip, g.handleModalStripPointerMove),
		g.registry.On(EventPointerUp, RegionModalStrip, g.handleModalStripPointerEnd),
		g.registry.On(EventPointerLeave, RegionModalStrip, g.handleModalStripPointerEnd),
	)
	g.page.SetScrollSuppressed(true)
	g.modalStrip.CenterOn(g.selection.Index())

	img, _ := g.selection.Current()
	g.tracker.Track(AnalyticsEvent{Event: TrackGalleryZoomOpen, ImageID: img.ID, Index: g.selection.Index()})
	return true
}

// CloseModal hides the zoom modal. The selection is kept.
func (g *Gallery) CloseModal() bool {
	return g.closeModal(true)
}

func (g *Gallery) closeModal(track bool) bool {
	if !g.modal.Close() {
		return false
	}
	for _, h := range g.modalHandles {
		h.Remove()
	}
	g.modalHandles = nil
	g.modalStrip.PointerUp()
	g.page.SetScrollSuppressed(false)

	if track {
		img, _ := g.selection.Current()
		g.tracker.Track(AnalyticsEvent{Event: TrackGalleryZoomClose, ImageID: img.ID, Index: g.selection.Index()})
	}
	return true
}

// ModalNext selects the next image from inside the modal
func (g *Gallery) ModalNext() bool {
	if !g.modal.IsOpen() {
		return false
	}
	return g.Next()
}

// ModalPrevious selects the previous image from inside the modal
func (g *Gallery) ModalPrevious() bool {
	if !g.modal.IsOpen() {
		return false
	}
	return g.Previous()
}

// ZoomBy applies a wheel step to the modal, for keyboard zoom
func (g *Gallery) ZoomBy(deltaY float64) bool {
	return g.modal.OnWheel(deltaY)
}

// SetZoomContainer records the modal image container size
func (g *Gallery) SetZoomContainer(width, height float64) {
	g.modal.SetContainerSize(width, height)
}

// Listeners

func (g *Gallery) handleGalleryWheel(ev InputEvent) bool {
	action, suppress := g.pager.HandleWheel(ev.DeltaY, g.selection.Index(), g.selection.Len())
	switch action {
	case PageNext:
		g.Next()
	case PagePrevious:
		g.Previous()
	}
	return suppress
}

func (g *Gallery) handleStripWheel(ev InputEvent) bool {
	if !g.thumbsVisible {
		return false
	}
	return g.strip.Wheel(ev.DeltaX, ev.DeltaY)
}

func (g *Gallery) handleStripPointerDown(ev InputEvent) bool {
	if !g.thumbsVisible {
		return false
	}
	g.strip.PointerDown(ev.X)
	return true
}

func (g *Gallery) handleStripPointerMove(ev InputEvent) bool {
	return g.strip.PointerMove(ev.X)
}

func (g *Gallery) handleStripPointerEnd(InputEvent) bool {
	wasDragging := g.strip.Dragging()
	g.strip.PointerUp()
	return wasDragging
}

func (g *Gallery) handleResize(ev InputEvent) bool {
	g.modal.SetContainerSize(ev.Width, ev.Height)
	return false
}

func (g *Gallery) handleModalKey(ev InputEvent) bool {
	if ev.Key != "Escape" {
		return false
	}
	return g.CloseModal()
}

func (g *Gallery) handleModalWheel(ev InputEvent) bool {
	return g.modal.OnWheel(ev.DeltaY)
}

func (g *Gallery) handleModalPointerDown(ev InputEvent) bool {
	g.modal.DragStart(ev.X, ev.Y)
	return true
}

func (g *Gallery) handleModalPointerMove(ev InputEvent) bool {
	return g.modal.DragMove(ev.X, ev.Y)
}

func (g *Gallery) handleModalPointerEnd(InputEvent) bool {
	g.modal.DragEnd()
	return true
}

// The modal strip sits beside the zoom container, so its events never reach
// the zoom handlers.

func (g *Gallery) handleModalStripWheel(ev InputEvent) bool {
	g.modalStrip.Wheel(ev.DeltaX, ev.DeltaY)
	return true
}

func (g *Gallery) handleModalStripPointerDown(ev InputEvent) bool {
	g.modalStrip.PointerDown(ev.X)
	return true
}

func (g *Gallery) handleModalStripPointerMove(ev InputEvent) bool {
	g.modalStrip.PointerMove(ev.X)
	return true
}

func (g *Gallery) handleModalStripPointerEnd(InputEvent) bool {
	g.modalStrip.PointerUp()
	return true
}

// View returns a snapshot of the gallery for drawing
func (g *Gallery) View() GalleryView {
	v := GalleryView{
		Images:            g.selection.Images(),
		Index:             g.selection.Index(),
		Status:            g.selection.Status(),
		RenderedSrc:       g.selection.RenderedSrc(),
		Empty:             g.selection.Len() == 0,
		ScrollLockEngaged: g.pager.Engaged(),
		ModalOpen:         g.modal.IsOpen(),
		Zoom:              g.modal.Zoom(),
		ThumbsVisible:     g.thumbsVisible,

		StripOffset:         g.strip.Offset(),
		CanScrollLeft:       g.strip.CanScrollLeft(),
		CanScrollRight:      g.strip.CanScrollRight(),
		ModalStripOffset:    g.modalStrip.Offset(),
		ModalCanScrollLeft:  g.modalStrip.CanScrollLeft(),
		ModalCanScrollRight: g.modalStrip.CanScrollRight(),
	}

	v.ModalThumbCount = min(1, g.selection.Len())
	if g.modalAttached {
		v.ModalThumbCount = g.selection.Len()
	}
	return v
}

type nopRequester struct{}

func (nopRequester) Request(LoadToken, string) {}
func (nopRequester) Preload([]string)          {}

type nopPage struct{}

func (nopPage) SetScrollSuppressed(bool) {}
