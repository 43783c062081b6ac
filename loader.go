package main

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// LoadResult is a finished load. Only primary results are reported to the
// gallery; preloads just fill the cache.
type LoadResult struct {
	Token   LoadToken
	Src     string
	Err     error
	Primary bool
}

type loadRequest struct {
	token   LoadToken
	src     string
	primary bool
}

// LoaderStats provides statistics about loading
type LoaderStats struct {
	Requested   int
	Preloaded   int
	LoadedCount int
	FailedCount int
	CacheHits   int
}

// TextureCache is an LRU of decoded textures keyed by source. Evicted
// textures are deallocated.
type TextureCache struct {
	cache *lru.Cache[string, *ebiten.Image]
}

// NewTextureCache creates a cache holding up to size textures
func NewTextureCache(size int) *TextureCache {
	evict := func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	cache, err := lru.NewWithEvict[string, *ebiten.Image](size, evict)
	if err != nil {
		warnLog("Failed to create texture cache of size %d: %v", size, err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, evict)
	}
	return &TextureCache{cache: cache}
}

func (c *TextureCache) Get(src string) (*ebiten.Image, bool) { return c.cache.Get(src) }
func (c *TextureCache) Contains(src string) bool             { return c.cache.Contains(src) }
func (c *TextureCache) Add(src string, img *ebiten.Image)    { c.cache.Add(src, img) }
func (c *TextureCache) Len() int                             { return c.cache.Len() }

// Purge drops and deallocates every texture
func (c *TextureCache) Purge() {
	c.cache.Purge()
}

// ImageLoader fetches and decodes images on worker goroutines. Primary
// requests are served before preloads. Results are collected with Drain
// from the update loop.
type ImageLoader struct {
	fetcher   ImageFetcher
	cache     *TextureCache
	toTexture func(img image.Image) *ebiten.Image

	primary chan loadRequest
	preload chan loadRequest
	results chan LoadResult

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	ready   []LoadResult
	stats   LoaderStats
	enabled bool
}

// NewImageLoader starts workers goroutines loading through fetcher into cache
func NewImageLoader(fetcher ImageFetcher, cache *TextureCache, workers int, preloadEnabled bool) *ImageLoader {
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &ImageLoader{
		fetcher:   fetcher,
		cache:     cache,
		toTexture: ebiten.NewImageFromImage,
		primary:   make(chan loadRequest, 16),
		preload:   make(chan loadRequest, 100),
		results:   make(chan LoadResult, 64),
		ctx:       ctx,
		cancel:    cancel,
		enabled:   preloadEnabled,
	}

	for i := 0; i < workers; i++ {
		l.wg.Add(1)
		go l.worker()
	}

	return l
}

// IsPreloadEnabled returns whether preloading is enabled
func (l *ImageLoader) IsPreloadEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

// Stats returns current loader statistics
func (l *ImageLoader) Stats() LoaderStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// Request loads src for the selection identified by token
func (l *ImageLoader) Request(token LoadToken, src string) {
	l.mu.Lock()
	l.stats.Requested++
	if l.cache.Contains(src) {
		l.stats.CacheHits++
		l.ready = append(l.ready, LoadResult{Token: token, Src: src, Primary: true})
		l.mu.Unlock()
		debugLog("Cache HIT: %s (cache: %d items)", src, l.cache.Len())
		return
	}
	l.mu.Unlock()

	req := loadRequest{token: token, src: src, primary: true}
	select {
	case l.primary <- req:
	default:
		// Queue is full of requests that are stale by now; the latest one must not be lost
		go func() {
			select {
			case l.primary <- req:
			case <-l.ctx.Done():
			}
		}()
	}
}

// Preload queues srcs for background loading, replacing any pending preloads
func (l *ImageLoader) Preload(srcs []string) {
	if !l.IsPreloadEnabled() {
		return
	}

	// Clear the queue to cancel pending preloads
drain:
	for {
		select {
		case <-l.preload:
		default:
			break drain
		}
	}

	for _, src := range srcs {
		if l.cache.Contains(src) {
			continue
		}
		select {
		case l.preload <- loadRequest{src: src}:
		default:
			debugLog("Preload queue full, skipping %s", src)
			return
		}
	}
}

// Drain passes every finished primary load to fn
func (l *ImageLoader) Drain(fn func(LoadResult)) int {
	l.mu.Lock()
	ready := l.ready
	l.ready = nil
	l.mu.Unlock()

	n := 0
	for _, res := range ready {
		fn(res)
		n++
	}
	for {
		select {
		case res := <-l.results:
			fn(res)
			n++
		default:
			return n
		}
	}
}

// Texture returns the cached texture for src
func (l *ImageLoader) Texture(src string) (*ebiten.Image, bool) {
	return l.cache.Get(src)
}

// Stop cancels all workers and waits for them to exit
func (l *ImageLoader) Stop() {
	l.cancel()
	l.wg.Wait()
}

func (l *ImageLoader) worker() {
	defer l.wg.Done()
	for {
		// Primary requests first
		select {
		case <-l.ctx.Done():
			return
		case req := <-l.primary:
			l.process(req)
			continue
		default:
		}

		select {
		case <-l.ctx.Done():
			return
		case req := <-l.primary:
			l.process(req)
		case req := <-l.preload:
			if l.IsPreloadEnabled() {
				l.process(req)
			}
		}
	}
}

func (l *ImageLoader) process(req loadRequest) {
	res := LoadResult{Token: req.token, Src: req.src, Primary: req.primary}

	if !l.cache.Contains(req.src) {
		img, err := l.fetcher.Fetch(l.ctx, req.src)
		if err != nil {
			l.mu.Lock()
			l.stats.FailedCount++
			l.mu.Unlock()
			debugLog("Load failed for %s: %v", req.src, err)
			res.Err = err
		} else {
			l.cache.Add(req.src, l.toTexture(img))

			l.mu.Lock()
			l.stats.LoadedCount++
			if !req.primary {
				l.stats.Preloaded++
			}
			l.mu.Unlock()

			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			debugLog("Loaded %s (cache: %d items, memory: %dMB)", req.src, l.cache.Len(), mem.Alloc/1024/1024)
		}
	}

	if !req.primary {
		return
	}
	select {
	case l.results <- res:
	case <-l.ctx.Done():
	}
}
