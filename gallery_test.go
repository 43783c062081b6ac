package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestRecord struct {
	token LoadToken
	src   string
}

type fakeRequester struct {
	requests []requestRecord
	preloads [][]string
}

func (f *fakeRequester) Request(token LoadToken, src string) {
	f.requests = append(f.requests, requestRecord{token: token, src: src})
}

func (f *fakeRequester) Preload(srcs []string) {
	f.preloads = append(f.preloads, srcs)
}

func (f *fakeRequester) last() requestRecord {
	return f.requests[len(f.requests)-1]
}

type fakePage struct {
	suppressed bool
	calls      int
}

func (p *fakePage) SetScrollSuppressed(s bool) {
	p.suppressed = s
	p.calls++
}

type recordingTracker struct {
	events []AnalyticsEvent
}

func (r *recordingTracker) Track(ev AnalyticsEvent) {
	r.events = append(r.events, ev)
}

func (r *recordingTracker) names() []string {
	var names []string
	for _, ev := range r.events {
		names = append(names, ev.Event)
	}
	return names
}

type galleryFixture struct {
	gallery  *Gallery
	registry *EventRegistry
	loader   *fakeRequester
	page     *fakePage
	tracker  *recordingTracker
	emitted  []string
	now      time.Time
}

func newGalleryFixture(t *testing.T, images []Image, mainURL string) *galleryFixture {
	t.Helper()
	f := &galleryFixture{
		registry: NewEventRegistry(),
		loader:   &fakeRequester{},
		page:     &fakePage{},
		tracker:  &recordingTracker{},
		now:      time.Unix(1700000000, 0),
	}
	f.gallery = NewGallery(GalleryOptions{
		Config:            DefaultGalleryConfig(),
		Loader:            f.loader,
		Page:              f.page,
		Tracker:           f.tracker,
		OnMainImageChange: func(url string) { f.emitted = append(f.emitted, url) },
		Now:               func() time.Time { return f.now },
	})
	f.gallery.Mount(f.registry, images, mainURL)
	return f
}

// succeed completes the most recent primary request
func (f *galleryFixture) succeed(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, f.loader.requests)
	require.True(t, f.gallery.HandleLoadResult(LoadResult{Token: f.loader.last().token, Src: f.loader.last().src, Primary: true}))
}

func (f *galleryFixture) advance(d time.Duration) int {
	f.now = f.now.Add(d)
	return f.gallery.Tick(f.now)
}

func TestGalleryMountRequestsInitialImage(t *testing.T) {
	images := productImages(4)
	f := newGalleryFixture(t, images, images[2].Src)

	view := f.gallery.View()
	assert.Equal(t, 2, view.Index)
	assert.Equal(t, LoadLoading, view.Status)
	assert.False(t, view.ThumbsVisible)
	assert.Equal(t, 1, view.ModalThumbCount, "only the active thumb before attach")

	require.Len(t, f.loader.requests, 1)
	assert.Equal(t, images[2].Src, f.loader.requests[0].src)
	assert.Empty(t, f.emitted, "the initial selection is not written back")
}

func TestGalleryListenerLifecycle(t *testing.T) {
	f := newGalleryFixture(t, productImages(3), "")
	assert.Equal(t, 7, f.registry.Len())
	assert.True(t, f.gallery.Mounted())

	require.True(t, f.gallery.OpenModal())
	assert.Equal(t, 18, f.registry.Len())
	assert.True(t, f.page.suppressed)

	require.True(t, f.gallery.CloseModal())
	assert.Equal(t, 7, f.registry.Len())
	assert.False(t, f.page.suppressed)

	require.True(t, f.gallery.OpenModal())
	f.gallery.Unmount()
	assert.Equal(t, 0, f.registry.Len(), "unmount releases modal listeners too")
	assert.False(t, f.gallery.Mounted())
	assert.False(t, f.page.suppressed)
	assert.NotContains(t, f.tracker.names(), TrackGalleryZoomClose)

	f.gallery.Unmount()
	assert.False(t, f.gallery.OpenModal(), "an unmounted gallery has no modal")
}

func TestGalleryUnmountCancelsDeferrals(t *testing.T) {
	f := newGalleryFixture(t, productImages(3), "")
	f.succeed(t)
	f.gallery.Unmount()
	assert.Equal(t, 0, f.advance(time.Second))
	assert.False(t, f.gallery.View().ThumbsVisible)
}

func TestGalleryDeferredReveal(t *testing.T) {
	f := newGalleryFixture(t, productImages(6), "")
	f.succeed(t)

	assert.Equal(t, 0, f.advance(199*time.Millisecond))
	assert.Equal(t, 1, f.gallery.View().ModalThumbCount)

	assert.Equal(t, 1, f.advance(time.Millisecond))
	assert.Equal(t, 6, f.gallery.View().ModalThumbCount, "modal thumbs attach after the primary settles")
	assert.False(t, f.gallery.View().ThumbsVisible)

	assert.Equal(t, 1, f.advance(100*time.Millisecond))
	assert.True(t, f.gallery.View().ThumbsVisible)

	// Next to the settled image first, then the whole strip on reveal
	require.Len(t, f.loader.preloads, 2)
	images := f.gallery.View().Images
	assert.Equal(t, []string{images[1].Src, images[2].Src, images[3].Src, images[4].Src}, f.loader.preloads[0])
	assert.Len(t, f.loader.preloads[1], 5)
}

func TestGalleryRevealAfterFailure(t *testing.T) {
	f := newGalleryFixture(t, productImages(2), "")
	tok := f.loader.last().token
	require.True(t, f.gallery.HandleLoadResult(LoadResult{Token: tok, Primary: true, Err: errors.New("404")}))

	view := f.gallery.View()
	assert.Equal(t, LoadErrored, view.Status)
	assert.Equal(t, placeholderSrc, view.RenderedSrc)

	f.advance(time.Second)
	assert.True(t, f.gallery.View().ThumbsVisible)
}

func TestGalleryPreloadOrder(t *testing.T) {
	images := productImages(6)
	f := newGalleryFixture(t, images, images[2].Src)
	f.succeed(t)

	require.NotEmpty(t, f.loader.preloads)
	assert.Equal(t, []string{images[3].Src, images[1].Src, images[4].Src, images[0].Src}, f.loader.preloads[0])
}

func TestGalleryStaleLoadIsDropped(t *testing.T) {
	f := newGalleryFixture(t, productImages(3), "")
	first := f.loader.last().token

	require.True(t, f.gallery.Next())
	assert.False(t, f.gallery.HandleLoadResult(LoadResult{Token: first, Primary: true}))
	assert.Equal(t, LoadLoading, f.gallery.View().Status)
	assert.Equal(t, 0, f.advance(time.Second), "a stale success schedules nothing")

	assert.False(t, f.gallery.HandleLoadResult(LoadResult{Token: f.loader.last().token}), "preloads never settle the selection")
	f.succeed(t)
	assert.Equal(t, LoadLoaded, f.gallery.View().Status)
}

func TestGalleryTransitionCancelsPendingReveal(t *testing.T) {
	f := newGalleryFixture(t, productImages(3), "")
	f.succeed(t)
	require.True(t, f.gallery.Next())

	assert.Equal(t, 0, f.advance(time.Second))
	assert.False(t, f.gallery.View().ThumbsVisible)

	f.succeed(t)
	f.advance(time.Second)
	assert.True(t, f.gallery.View().ThumbsVisible)
}

func TestGalleryNavigationEmitsAndTracks(t *testing.T) {
	images := productImages(3)
	f := newGalleryFixture(t, images, "")

	require.True(t, f.gallery.Previous())
	assert.Equal(t, []string{images[2].Src}, f.emitted)
	assert.Equal(t, images[2].Src, f.gallery.MainImageURL())
	assert.Equal(t, images[2].Src, f.loader.last().src)

	require.NotEmpty(t, f.tracker.events)
	ev := f.tracker.events[len(f.tracker.events)-1]
	assert.Equal(t, TrackGalleryNavigate, ev.Event)
	assert.Equal(t, 0, ev.FromIndex)
	assert.Equal(t, 2, ev.Index)
	assert.False(t, ev.External)

	require.True(t, f.gallery.First())
	require.False(t, f.gallery.First())
	require.True(t, f.gallery.Last())
	assert.Equal(t, 2, f.gallery.View().Index)
}

func TestGalleryExternalMainImage(t *testing.T) {
	images := productImages(4)
	f := newGalleryFixture(t, images, "")
	requests := len(f.loader.requests)

	require.True(t, f.gallery.SetMainImageURL(images[3].Src))
	assert.Equal(t, 3, f.gallery.View().Index)
	assert.Empty(t, f.emitted)
	assert.Equal(t, requests+1, len(f.loader.requests))

	ev := f.tracker.events[len(f.tracker.events)-1]
	assert.True(t, ev.External)

	assert.False(t, f.gallery.SetMainImageURL(images[3].Src), "the current URL is not a change")
	assert.False(t, f.gallery.SetMainImageURL(""))
	assert.Equal(t, 3, f.gallery.View().Index)
}

func TestGallerySetImages(t *testing.T) {
	images := productImages(3)
	f := newGalleryFixture(t, images, "")
	require.True(t, f.gallery.Next())
	f.succeed(t)
	f.advance(time.Second)
	require.True(t, f.gallery.OpenModal())

	assert.False(t, f.gallery.SetImages(images), "the same list keeps all state")
	assert.True(t, f.gallery.View().ModalOpen)
	assert.Equal(t, 1, f.gallery.View().Index)

	// A new list starts from the owner's URL, here the last emitted one
	replacement := productImages(3)
	require.True(t, f.gallery.SetImages(replacement))
	view := f.gallery.View()
	assert.Equal(t, 1, view.Index)
	assert.False(t, view.ModalOpen)
	assert.False(t, view.ThumbsVisible)
	assert.Equal(t, LoadLoading, view.Status)
	assert.Equal(t, 7, f.registry.Len())

	require.True(t, f.gallery.SetImages(productImages(5)[3:]))
	assert.Equal(t, 0, f.gallery.View().Index, "unknown URL falls back to the first image")
}

func TestGalleryEmptyList(t *testing.T) {
	f := newGalleryFixture(t, nil, "")

	view := f.gallery.View()
	assert.True(t, view.Empty)
	assert.Equal(t, LoadErrored, view.Status)
	assert.Equal(t, placeholderSrc, view.RenderedSrc)
	assert.Equal(t, 0, view.ModalThumbCount)
	assert.Empty(t, f.loader.requests)

	assert.False(t, f.gallery.Next())
	assert.False(t, f.gallery.Last())
	assert.False(t, f.gallery.OpenModal())
	assert.False(t, f.registry.Dispatch(InputEvent{Kind: EventWheel, Region: RegionGallery, DeltaY: 100}))
}

func TestGalleryEmptySourceFailsImmediately(t *testing.T) {
	images := productImages(2)
	images[0].Src = ""
	f := newGalleryFixture(t, images, "")

	assert.Empty(t, f.loader.requests)
	assert.Equal(t, LoadErrored, f.gallery.View().Status)

	require.True(t, f.gallery.Next())
	assert.Equal(t, images[1].Src, f.loader.last().src)
}

func TestGalleryWheelPaging(t *testing.T) {
	images := productImages(3)
	f := newGalleryFixture(t, images, "")
	wheel := func(dy float64) bool {
		return f.registry.Dispatch(InputEvent{Kind: EventWheel, Region: RegionGallery, DeltaY: dy})
	}

	assert.True(t, wheel(100))
	assert.True(t, wheel(100))
	assert.Equal(t, 2, f.gallery.View().Index)
	assert.Equal(t, []string{images[1].Src, images[2].Src}, f.emitted)

	assert.False(t, wheel(100), "the last image hands scrolling back to the page")
	assert.False(t, f.gallery.View().ScrollLockEngaged)
	assert.False(t, wheel(-100))

	// Any navigation re-arms paging
	require.True(t, f.gallery.SelectIndex(1))
	assert.True(t, f.gallery.View().ScrollLockEngaged)
	assert.True(t, wheel(-100))
	assert.Equal(t, 0, f.gallery.View().Index)
}

func TestGalleryStripListenersAfterReveal(t *testing.T) {
	f := newGalleryFixture(t, productImages(8), "")
	down := InputEvent{Kind: EventPointerDown, Region: RegionMainStrip, X: 50}

	assert.False(t, f.registry.Dispatch(down), "hidden thumbs ignore the pointer")

	f.succeed(t)
	f.advance(time.Second)
	require.True(t, f.gallery.View().ThumbsVisible)

	assert.True(t, f.registry.Dispatch(down))
	assert.True(t, f.gallery.Strip().Dragging())
	assert.True(t, f.registry.Dispatch(InputEvent{Kind: EventPointerLeave, Region: RegionMainStrip}))
	assert.False(t, f.gallery.Strip().Dragging())
}

func TestGalleryModalInput(t *testing.T) {
	images := productImages(3)
	f := newGalleryFixture(t, images, "")
	f.registry.Dispatch(InputEvent{Kind: EventResize, Region: RegionWindow, Width: 800, Height: 600})
	require.True(t, f.gallery.OpenModal())

	assert.True(t, f.registry.Dispatch(InputEvent{Kind: EventWheel, Region: RegionModal, DeltaY: -500}))
	assert.InDelta(t, 1.5, f.gallery.View().Zoom.Scale, 1e-9)
	assert.Equal(t, 0, f.gallery.View().Index, "wheel inside the modal never pages")

	f.registry.Dispatch(InputEvent{Kind: EventPointerDown, Region: RegionModal, X: 100, Y: 100})
	f.registry.Dispatch(InputEvent{Kind: EventPointerMove, Region: RegionModal, X: 140, Y: 120})
	f.registry.Dispatch(InputEvent{Kind: EventPointerUp, Region: RegionModal, X: 140, Y: 120})
	assert.Equal(t, Zoom{Scale: 1.5, X: 40, Y: 20}, f.gallery.View().Zoom)

	require.True(t, f.gallery.ModalNext())
	assert.True(t, f.gallery.View().Zoom.IsIdentity(), "changing image resets the zoom")
	assert.True(t, f.gallery.View().ModalOpen)

	assert.False(t, f.registry.Dispatch(InputEvent{Kind: EventKey, Region: RegionWindow, Key: "KeyA"}))
	assert.True(t, f.registry.Dispatch(InputEvent{Kind: EventKey, Region: RegionWindow, Key: "Escape"}))
	assert.False(t, f.gallery.View().ModalOpen)
	assert.Equal(t, 1, f.gallery.View().Index, "closing keeps the selection")
	assert.False(t, f.gallery.ModalNext())

	assert.Contains(t, f.tracker.names(), TrackGalleryZoomOpen)
	assert.Contains(t, f.tracker.names(), TrackGalleryZoomClose)
}

func TestGalleryModalStripInput(t *testing.T) {
	images := productImages(10)
	stripVP := NewScrollViewport()
	stripVP.SetExtents(float64(len(images))*108, 500)
	registry := NewEventRegistry()
	g := NewGallery(GalleryOptions{Config: DefaultGalleryConfig(), ModalStrip: stripVP})
	g.Mount(registry, images, "")
	registry.Dispatch(InputEvent{Kind: EventResize, Region: RegionWindow, Width: 800, Height: 600})
	require.True(t, g.OpenModal())

	tests := []struct {
		name string
		ev   InputEvent
	}{
		{"VerticalWheel", InputEvent{Kind: EventWheel, Region: RegionModalStrip, DeltaY: -500}},
		{"HorizontalWheel", InputEvent{Kind: EventWheel, Region: RegionModalStrip, DeltaX: 120}},
		{"Press", InputEvent{Kind: EventPointerDown, Region: RegionModalStrip, X: 300, Y: 800}},
		{"Drag", InputEvent{Kind: EventPointerMove, Region: RegionModalStrip, X: 200, Y: 760}},
		{"Release", InputEvent{Kind: EventPointerUp, Region: RegionModalStrip, X: 200, Y: 760}},
		{"Leave", InputEvent{Kind: EventPointerLeave, Region: RegionModalStrip}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, registry.Dispatch(tt.ev))
			assert.True(t, g.View().Zoom.IsIdentity(), "the strip never zooms or pans the image")
		})
	}

	assert.Equal(t, 220.0, g.View().ModalStripOffset, "wheel then drag scrolls the strip")
	assert.False(t, g.ModalStrip().Dragging())
	assert.Equal(t, 0, g.View().Index)
}

func TestGalleryViewTracksSuccess(t *testing.T) {
	images := productImages(2)
	f := newGalleryFixture(t, images, "")
	f.succeed(t)

	ev := f.tracker.events[len(f.tracker.events)-1]
	assert.Equal(t, TrackGalleryViewImage, ev.Event)
	assert.Equal(t, images[0].ID, ev.ImageID)
}
