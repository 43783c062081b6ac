package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRegistryBubbling(t *testing.T) {
	r := NewEventRegistry()
	var calls []string
	record := func(name string, handled bool) Handler {
		return func(InputEvent) bool {
			calls = append(calls, name)
			return handled
		}
	}

	r.On(EventWheel, RegionMainStrip, record("strip", false))
	r.On(EventWheel, RegionGallery, record("gallery", true))
	r.On(EventWheel, RegionWindow, record("window", true))

	assert.True(t, r.Dispatch(InputEvent{Kind: EventWheel, Region: RegionMainStrip}))
	assert.Equal(t, []string{"strip", "gallery"}, calls, "bubbling stops at the first handler that claims the event")

	calls = nil
	assert.True(t, r.Dispatch(InputEvent{Kind: EventWheel, Region: RegionWindow}))
	assert.Equal(t, []string{"window"}, calls)

	calls = nil
	assert.False(t, r.Dispatch(InputEvent{Kind: EventPointerDown, Region: RegionMainStrip}))
	assert.Empty(t, calls, "other kinds do not match")
}

func TestEventRegistryModalRegions(t *testing.T) {
	r := NewEventRegistry()
	var got []Region
	r.On(EventWheel, RegionModal, func(ev InputEvent) bool {
		got = append(got, ev.Region)
		return true
	})

	assert.True(t, r.Dispatch(InputEvent{Kind: EventWheel, Region: RegionModalStrip}))
	assert.False(t, r.Dispatch(InputEvent{Kind: EventWheel, Region: RegionGallery}))
	assert.Equal(t, []Region{RegionModalStrip}, got, "the event keeps its original region while bubbling")
}

func TestListenerHandleRemove(t *testing.T) {
	r := NewEventRegistry()
	called := 0
	h := r.On(EventKey, RegionWindow, func(InputEvent) bool { called++; return true })
	other := r.On(EventKey, RegionWindow, func(InputEvent) bool { return false })
	require.Equal(t, 2, r.Len())

	h.Remove()
	h.Remove()
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.Dispatch(InputEvent{Kind: EventKey, Region: RegionWindow, Key: "Escape"}))
	assert.Equal(t, 0, called)

	other.Remove()
	assert.Equal(t, 0, r.Len())
	ListenerHandle{}.Remove()
}

func TestEventRegistryHandlerRemovesItself(t *testing.T) {
	r := NewEventRegistry()
	var h ListenerHandle
	calls := 0
	h = r.On(EventKey, RegionWindow, func(InputEvent) bool {
		calls++
		h.Remove()
		return true
	})
	second := 0
	r.On(EventKey, RegionWindow, func(InputEvent) bool { second++; return false })

	assert.True(t, r.Dispatch(InputEvent{Kind: EventKey, Region: RegionWindow}))
	assert.False(t, r.Dispatch(InputEvent{Kind: EventKey, Region: RegionWindow}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, second, "listeners in the same region all run")
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "wheel", EventWheel.String())
	assert.Equal(t, "pointerleave", EventPointerLeave.String())
	assert.Equal(t, "resize", EventResize.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}

func TestDeferralsFireInOrder(t *testing.T) {
	d := NewDeferrals()
	base := time.Unix(1000, 0)
	var fired []string

	d.Schedule("late", base.Add(300*time.Millisecond), func() { fired = append(fired, "late") })
	d.Schedule("early", base.Add(200*time.Millisecond), func() { fired = append(fired, "early") })
	require.Equal(t, 2, d.Len())

	assert.Equal(t, 0, d.Fire(base.Add(100*time.Millisecond)))
	assert.Equal(t, 1, d.Fire(base.Add(250*time.Millisecond)))
	assert.Equal(t, []string{"early"}, fired)
	assert.False(t, d.Pending("early"))
	assert.True(t, d.Pending("late"))

	assert.Equal(t, 1, d.Fire(base.Add(time.Second)))
	assert.Equal(t, []string{"early", "late"}, fired)
	assert.Equal(t, 0, d.Fire(base.Add(2*time.Second)), "callbacks fire once")
}

func TestDeferralsCancel(t *testing.T) {
	d := NewDeferrals()
	base := time.Unix(1000, 0)
	fired := 0

	d.Schedule("a", base, func() { fired++ })
	d.Schedule("b", base, func() { fired++ })
	d.Cancel("a")
	assert.Equal(t, 1, d.Fire(base))

	d.Schedule("a", base, func() { fired++ })
	d.Schedule("b", base, func() { fired++ })
	d.CancelAll()
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0, d.Fire(base.Add(time.Hour)))
	assert.Equal(t, 1, fired)
}

func TestDeferralsRescheduleReplaces(t *testing.T) {
	d := NewDeferrals()
	base := time.Unix(1000, 0)
	var got []int

	d.Schedule("x", base, func() { got = append(got, 1) })
	d.Schedule("x", base.Add(time.Second), func() { got = append(got, 2) })
	assert.Equal(t, 0, d.Fire(base))
	assert.Equal(t, 1, d.Fire(base.Add(time.Second)))
	assert.Equal(t, []int{2}, got)
}

func TestDeferralsCancelledByEarlierCallback(t *testing.T) {
	d := NewDeferrals()
	base := time.Unix(1000, 0)
	secondRan := false

	d.Schedule("first", base, func() { d.CancelAll() })
	d.Schedule("second", base.Add(time.Millisecond), func() { secondRan = true })

	assert.Equal(t, 1, d.Fire(base.Add(time.Second)))
	assert.False(t, secondRan)
}
