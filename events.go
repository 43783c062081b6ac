package main

// EventKind is the type of an input event
type EventKind int

const (
	EventWheel EventKind = iota
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventPointerLeave
	EventKey
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventWheel:
		return "wheel"
	case EventPointerDown:
		return "pointerdown"
	case EventPointerMove:
		return "pointermove"
	case EventPointerUp:
		return "pointerup"
	case EventPointerLeave:
		return "pointerleave"
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Region is an area of the window that listeners attach to. Regions nest;
// events bubble from a region to its parent until a listener handles them.
type Region int

const (
	RegionWindow Region = iota
	RegionGallery
	RegionMainStrip
	RegionModal
	RegionModalStrip
)

var regionParents = map[Region]Region{
	RegionGallery:    RegionWindow,
	RegionMainStrip:  RegionGallery,
	RegionModal:      RegionWindow,
	RegionModalStrip: RegionModal,
}

// InputEvent is one pointer, wheel, key or resize event. Wheel deltas use
// page-scroll orientation: positive DeltaY scrolls down. Resize events carry
// the size of the zoom container in Width and Height.
type InputEvent struct {
	Kind   EventKind
	Region Region
	X, Y   float64
	DeltaX float64
	DeltaY float64
	Key    string
	Width  float64
	Height float64
}

// Handler reacts to an event. Returning true marks the event handled, which
// stops bubbling and suppresses the host's default action.
type Handler func(ev InputEvent) bool

type listener struct {
	id      uint64
	kind    EventKind
	region  Region
	handler Handler
}

// EventRegistry holds the listeners attached to window regions
type EventRegistry struct {
	listeners []listener
	nextID    uint64
}

// NewEventRegistry creates an empty registry
func NewEventRegistry() *EventRegistry {
	return &EventRegistry{}
}

// ListenerHandle removes the listener it was returned for
type ListenerHandle struct {
	id       uint64
	registry *EventRegistry
}

// Remove detaches the listener. Removing twice is harmless.
func (h ListenerHandle) Remove() {
	if h.registry == nil {
		return
	}
	h.registry.remove(h.id)
}

// On attaches handler to events of kind in region
func (r *EventRegistry) On(kind EventKind, region Region, handler Handler) ListenerHandle {
	r.nextID++
	r.listeners = append(r.listeners, listener{
		id:      r.nextID,
		kind:    kind,
		region:  region,
		handler: handler,
	})
	return ListenerHandle{id: r.nextID, registry: r}
}

func (r *EventRegistry) remove(id uint64) {
	for i, l := range r.listeners {
		if l.id == id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of attached listeners
func (r *EventRegistry) Len() int {
	return len(r.listeners)
}

// Dispatch delivers ev to its region and then to each parent region until a
// listener handles it. Returns whether it was handled.
func (r *EventRegistry) Dispatch(ev InputEvent) bool {
	region := ev.Region
	for {
		if r.dispatchRegion(ev, region) {
			return true
		}
		parent, ok := regionParents[region]
		if !ok {
			return false
		}
		region = parent
	}
}

func (r *EventRegistry) dispatchRegion(ev InputEvent, region Region) bool {
	// Snapshot so handlers may add or remove listeners while running
	var handlers []Handler
	for _, l := range r.listeners {
		if l.kind == ev.Kind && l.region == region {
			handlers = append(handlers, l.handler)
		}
	}

	handled := false
	for _, h := range handlers {
		if h(ev) {
			handled = true
		}
	}
	return handled
}
