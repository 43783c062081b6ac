package main

// ScrollLockState is the state of the wheel paging lock
type ScrollLockState int

const (
	ScrollLocked ScrollLockState = iota
	ScrollReleased
)

// PageAction is what a wheel event asks the gallery to do
type PageAction int

const (
	PageNone PageAction = iota
	PageNext
	PagePrevious
)

// ScrollPager turns vertical wheel input over the gallery into image paging.
// While locked the wheel pages through images; at either end the lock
// releases and the wheel falls through to the page until the next index change.
type ScrollPager struct {
	state ScrollLockState
}

// NewScrollPager creates a locked pager
func NewScrollPager() *ScrollPager {
	return &ScrollPager{state: ScrollLocked}
}

// Rearm locks the pager again. Called on every index change.
func (p *ScrollPager) Rearm() {
	p.state = ScrollLocked
}

// State returns the current lock state
func (p *ScrollPager) State() ScrollLockState {
	return p.state
}

// Engaged reports whether wheel input is captured
func (p *ScrollPager) Engaged() bool {
	return p.state == ScrollLocked
}

// HandleWheel decides what a wheel step does. suppress is true when the
// event must not scroll the page.
func (p *ScrollPager) HandleWheel(deltaY float64, index, count int) (action PageAction, suppress bool) {
	if count <= 1 || deltaY == 0 || p.state == ScrollReleased {
		return PageNone, false
	}

	if deltaY > 0 {
		if index < count-1 {
			return PageNext, true
		}
		p.state = ScrollReleased
		return PageNone, false
	}

	if index > 0 {
		return PagePrevious, true
	}
	p.state = ScrollReleased
	return PageNone, false
}
