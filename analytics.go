package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Analytics event names
const (
	TrackViewItem         = "view_item"
	TrackGalleryViewImage = "gallery_view_image"
	TrackGalleryNavigate  = "gallery_navigate"
	TrackGalleryZoomOpen  = "gallery_zoom_open"
	TrackGalleryZoomClose = "gallery_zoom_close"
)

// AnalyticsEvent is one fire-and-forget analytics record
type AnalyticsEvent struct {
	ID        string         `json:"event_id"`
	Event     string         `json:"event"`
	ProductID string         `json:"product_id,omitempty"`
	ImageID   string         `json:"image_id,omitempty"`
	Index     int            `json:"image_index"`
	FromIndex int            `json:"from_index,omitempty"`
	External  bool           `json:"external,omitempty"`
	Ecommerce *EcommerceData `json:"ecommerce,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EcommerceData mirrors the ecommerce block of a tag-manager view_item event
type EcommerceData struct {
	Currency string          `json:"currency"`
	Value    float64         `json:"value"`
	Items    []EcommerceItem `json:"items"`
}

// EcommerceItem is one product inside EcommerceData
type EcommerceItem struct {
	ItemID       string  `json:"item_id"`
	ItemName     string  `json:"item_name"`
	Price        float64 `json:"price"`
	ItemCategory string  `json:"item_category,omitempty"`
	Quantity     int     `json:"quantity"`
}

// Tracker accepts analytics events. Track must never block the caller.
type Tracker interface {
	Track(ev AnalyticsEvent)
}

// NopTracker discards every event
type NopTracker struct{}

func (NopTracker) Track(AnalyticsEvent) {}

// productTracker stamps a product id on every event it forwards
type productTracker struct {
	next      Tracker
	productID string
}

func withProduct(next Tracker, productID string) Tracker {
	return &productTracker{next: next, productID: productID}
}

func (t *productTracker) Track(ev AnalyticsEvent) {
	if ev.ProductID == "" {
		ev.ProductID = t.productID
	}
	t.next.Track(ev)
}

// Publisher delivers a serialized event to a sink
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
	Close() error
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, key, value []byte) error {
	infoLog("analytics key=%s %s", key, value)
	return nil
}

func (LogPublisher) Close() error { return nil }

// TrackerOptions tunes AsyncTracker delivery
type TrackerOptions struct {
	QueueSize      int
	MaxAttempts    int
	Backoff        time.Duration
	PublishTimeout time.Duration
}

// DefaultTrackerOptions returns the delivery settings used by the CLI
func DefaultTrackerOptions() TrackerOptions {
	return TrackerOptions{
		QueueSize:      256,
		MaxAttempts:    3,
		Backoff:        200 * time.Millisecond,
		PublishTimeout: 5 * time.Second,
	}
}

// TrackerStats counts delivery outcomes
type TrackerStats struct {
	Published int
	Failed    int
	Dropped   int
	Retries   int
}

var errTrackerClosed = errors.New("tracker closed")

// AsyncTracker queues events and publishes them from a background goroutine
type AsyncTracker struct {
	publisher Publisher
	opts      TrackerOptions
	queue     chan AnalyticsEvent
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	sleep     func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	closed bool
	stats  TrackerStats
}

// NewAsyncTracker starts a tracker publishing through publisher
func NewAsyncTracker(publisher Publisher, opts TrackerOptions) *AsyncTracker {
	defaults := DefaultTrackerOptions()
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaults.QueueSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaults.Backoff
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = defaults.PublishTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &AsyncTracker{
		publisher: publisher,
		opts:      opts,
		queue:     make(chan AnalyticsEvent, opts.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		sleep:     sleepContext,
	}

	go t.run()

	return t
}

// Track enqueues ev. When the queue is full the event is dropped.
func (t *AsyncTracker) Track(ev AnalyticsEvent) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		t.stats.Dropped++
		return
	}

	select {
	case t.queue <- ev:
	default:
		t.stats.Dropped++
		debugLog("Analytics queue full, dropping %s", ev.Event)
	}
}

// Stats returns delivery counters
func (t *AsyncTracker) Stats() TrackerStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Close stops accepting events and waits for the queue to drain until ctx
// expires, then closes the publisher
func (t *AsyncTracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()

	var err error
	select {
	case <-t.done:
	case <-ctx.Done():
		err = fmt.Errorf("draining analytics queue: %w", ctx.Err())
	}
	t.cancel()
	<-t.done

	if cerr := t.publisher.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing analytics publisher: %w", cerr)
	}
	return err
}

func (t *AsyncTracker) run() {
	defer close(t.done)
	for ev := range t.queue {
		if t.ctx.Err() != nil {
			t.addStats(func(s *TrackerStats) { s.Dropped++ })
			continue
		}
		if err := t.deliver(ev); err != nil {
			warnLog("Analytics event %s (%s) not delivered: %v", ev.Event, ev.ID, err)
		}
	}
}

// deliver publishes ev, retrying with exponential backoff. The attempt
// counter belongs to this call.
func (t *AsyncTracker) deliver(ev AnalyticsEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		t.addStats(func(s *TrackerStats) { s.Failed++ })
		return fmt.Errorf("encoding event: %w", err)
	}
	key := []byte(ev.ProductID)

	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(t.ctx, t.opts.PublishTimeout)
		err = t.publisher.Publish(ctx, key, payload)
		cancel()

		if err == nil {
			t.addStats(func(s *TrackerStats) { s.Published++ })
			return nil
		}
		if attempt >= t.opts.MaxAttempts {
			t.addStats(func(s *TrackerStats) { s.Failed++ })
			return fmt.Errorf("after %d attempts: %w", attempt, err)
		}

		debugLog("Analytics publish attempt %d failed: %v", attempt, err)
		t.addStats(func(s *TrackerStats) { s.Retries++ })
		if serr := t.sleep(t.ctx, t.opts.Backoff<<(attempt-1)); serr != nil {
			t.addStats(func(s *TrackerStats) { s.Failed++ })
			return fmt.Errorf("%w: %v", errTrackerClosed, err)
		}
	}
}

func (t *AsyncTracker) addStats(fn func(s *TrackerStats)) {
	t.mu.Lock()
	fn(&t.stats)
	t.mu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
