package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// NavigationDirection represents the direction of navigation
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

func (d NavigationDirection) String() string {
	switch d {
	case NavigationForward:
		return "forward"
	case NavigationBackward:
		return "backward"
	default:
		return "jump"
	}
}

// PageStatus tells the renderer what GetPageImage handed back
type PageStatus int

const (
	PageMissing PageStatus = iota // index out of range
	PagePending                   // still being fetched, draw a placeholder
	PageLoaded
	PageFailed // the image is an error card
)

const (
	pageFetchTimeout   = 30 * time.Second
	maxConcurrentLoads = 2
)

// PreloadRequest represents a request to preload an image
type PreloadRequest struct {
	Index     int
	Direction NavigationDirection
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	QueueSize     int
	LoadedCount   int
	FailedCount   int
	CachedCount   int
	LastDirection NavigationDirection
}

// PreloadManager fetches the pages around the current one in the background
type PreloadManager struct {
	requestChan  chan PreloadRequest
	ctx          context.Context
	cancel       context.CancelFunc
	imageManager *DefaultImageManager
	mu           sync.RWMutex
	stats        PreloadStats
	maxPreload   int
	enabled      bool
}

// NewPreloadManager creates a new PreloadManager and starts its worker
func NewPreloadManager(imageManager *DefaultImageManager, maxPreload int) *PreloadManager {
	ctx, cancel := context.WithCancel(imageManager.ctx)
	pm := &PreloadManager{
		requestChan:  make(chan PreloadRequest, 100),
		ctx:          ctx,
		cancel:       cancel,
		imageManager: imageManager,
		maxPreload:   maxPreload,
		enabled:      true,
	}

	go pm.worker()

	return pm
}

// SetEnabled enables or disables preloading
func (pm *PreloadManager) SetEnabled(enabled bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = enabled
}

// IsEnabled returns whether preloading is enabled
func (pm *PreloadManager) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	stats := pm.stats
	stats.QueueSize = len(pm.requestChan)
	return stats
}

// Stop stops the preload manager
func (pm *PreloadManager) Stop() {
	pm.cancel()
}

// StartPreload replaces any queued request with one around currentIdx
func (pm *PreloadManager) StartPreload(currentIdx int, direction NavigationDirection) {
	if !pm.IsEnabled() {
		return
	}

drain:
	for {
		select {
		case <-pm.requestChan:
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{Index: currentIdx, Direction: direction}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

func (pm *PreloadManager) worker() {
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.processPreloadRequest(req)
			}
		}
	}
}

func (pm *PreloadManager) processPreloadRequest(req PreloadRequest) {
	pm.mu.Lock()
	pm.stats.LastDirection = req.Direction
	pm.mu.Unlock()

	pageCount := pm.imageManager.PageCount()
	if pageCount == 0 {
		return
	}

	for _, idx := range pm.calculatePreloadIndices(req.Index, req.Direction, pageCount) {
		select {
		case <-pm.ctx.Done():
			return
		default:
		}
		// a newer request means the reader moved on
		if len(pm.requestChan) > 0 {
			return
		}
		pm.preloadImage(idx)
	}
}

// calculatePreloadIndices returns the pages to fetch after landing on
// currentIdx. Forward and backward moves look ahead in that direction only;
// a jump splits the budget both ways.
func (pm *PreloadManager) calculatePreloadIndices(currentIdx int, direction NavigationDirection, pageCount int) []int {
	var indices []int
	appendIfValid := func(idx int) {
		if idx >= 0 && idx < pageCount {
			indices = append(indices, idx)
		}
	}

	switch direction {
	case NavigationForward:
		for i := 1; i <= pm.maxPreload; i++ {
			appendIfValid(currentIdx + i)
		}
	case NavigationBackward:
		for i := 1; i <= pm.maxPreload; i++ {
			appendIfValid(currentIdx - i)
		}
	case NavigationJump:
		half := pm.maxPreload / 2
		for i := 1; i <= half; i++ {
			appendIfValid(currentIdx + i)
		}
		for i := 1; i <= half; i++ {
			appendIfValid(currentIdx - i)
		}
	}

	return indices
}

func (pm *PreloadManager) preloadImage(idx int) {
	if pm.imageManager.isCached(idx) {
		return
	}

	if _, err := pm.imageManager.load(idx); err != nil {
		pm.mu.Lock()
		pm.stats.FailedCount++
		pm.mu.Unlock()
		debugLog("Preload failed for page %d: %v", idx+1, err)
		return
	}

	pm.mu.Lock()
	pm.stats.LoadedCount++
	pm.mu.Unlock()
	debugLog("Preloaded page %d (cache: %d items)", idx+1, pm.imageManager.cache.Len())
}

// ImageManager fetches, decodes and caches the page images of one comic
type ImageManager interface {
	// Image never blocks. A page that is not cached yet is requested and
	// reported as PagePending.
	Image(idx int) (*ebiten.Image, PageStatus)
	Size(idx int) (w, h int, ok bool)
	SetPageCount(n int)
	PageCount() int
	StartPreload(currentIdx int, direction NavigationDirection)
	StopPreload()
	GetPreloadStats() PreloadStats
}

// DefaultImageManager implements ImageManager on top of a Store
type DefaultImageManager struct {
	store   Store
	comicID int64

	ctx    context.Context
	cancel context.CancelFunc

	cache *lru.Cache[int, *ebiten.Image]
	group singleflight.Group
	sem   chan struct{}

	mu        sync.RWMutex
	pageCount int
	sizes     map[int][2]int
	failed    map[int]*ebiten.Image
	pending   map[int]bool

	preloadManager *PreloadManager
}

func newImageCache(cacheSize int) *lru.Cache[int, *ebiten.Image] {
	evict := func(_ int, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	cache, err := lru.NewWithEvict[int, *ebiten.Image](cacheSize, evict)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.NewWithEvict[int, *ebiten.Image](16, evict)
	}
	return cache
}

// NewImageManager creates an image manager for comicID. Preloading runs
// only when preloadEnabled is set.
func NewImageManager(store Store, comicID int64, cacheSize, preloadCount int, preloadEnabled bool) *DefaultImageManager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &DefaultImageManager{
		store:   store,
		comicID: comicID,
		ctx:     ctx,
		cancel:  cancel,
		cache:   newImageCache(cacheSize),
		sem:     make(chan struct{}, maxConcurrentLoads),
		sizes:   make(map[int][2]int),
		failed:  make(map[int]*ebiten.Image),
		pending: make(map[int]bool),
	}

	m.preloadManager = NewPreloadManager(m, preloadCount)
	m.preloadManager.SetEnabled(preloadEnabled)

	return m
}

func (m *DefaultImageManager) SetPageCount(n int) {
	m.mu.Lock()
	m.pageCount = n
	m.mu.Unlock()
	debugLog("SetPageCount: %d pages, cache preserved (%d items)", n, m.cache.Len())
}

func (m *DefaultImageManager) PageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pageCount
}

func (m *DefaultImageManager) StartPreload(currentIdx int, direction NavigationDirection) {
	if m.preloadManager != nil {
		m.preloadManager.StartPreload(currentIdx, direction)
	}
}

// StopPreload stops the worker and abandons every fetch in flight
func (m *DefaultImageManager) StopPreload() {
	if m.preloadManager != nil {
		m.preloadManager.Stop()
	}
	m.cancel()
}

func (m *DefaultImageManager) GetPreloadStats() PreloadStats {
	if m.preloadManager == nil {
		return PreloadStats{CachedCount: m.cache.Len()}
	}
	stats := m.preloadManager.GetStats()
	stats.CachedCount = m.cache.Len()
	return stats
}

// Size is the pixel size of a page that has been decoded at least once
func (m *DefaultImageManager) Size(idx int) (int, int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	size, ok := m.sizes[idx]
	return size[0], size[1], ok
}

func (m *DefaultImageManager) Image(idx int) (*ebiten.Image, PageStatus) {
	if idx < 0 || idx >= m.PageCount() {
		return nil, PageMissing
	}

	if img, ok := m.cache.Get(idx); ok {
		return img, PageLoaded
	}

	m.mu.Lock()
	if img, ok := m.failed[idx]; ok {
		m.mu.Unlock()
		return img, PageFailed
	}
	if m.pending[idx] {
		m.mu.Unlock()
		return nil, PagePending
	}
	m.pending[idx] = true
	m.mu.Unlock()

	go func() {
		if _, err := m.load(idx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Error: Failed to load page %d/%d of comic %d: %v", idx+1, m.PageCount(), m.comicID, err)
		}
	}()
	return nil, PagePending
}

func (m *DefaultImageManager) isCached(idx int) bool {
	return m.cache.Contains(idx)
}

// load fetches and decodes a page once, however many callers ask for it
func (m *DefaultImageManager) load(idx int) (*ebiten.Image, error) {
	v, err, _ := m.group.Do(strconv.Itoa(idx), func() (any, error) {
		defer func() {
			m.mu.Lock()
			delete(m.pending, idx)
			m.mu.Unlock()
		}()

		if img, ok := m.cache.Get(idx); ok {
			return img, nil
		}

		select {
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
		case <-m.ctx.Done():
			return nil, m.ctx.Err()
		}

		ctx, cancel := context.WithTimeout(m.ctx, pageFetchTimeout)
		defer cancel()

		data, err := m.store.PageImage(ctx, m.comicID, idx)
		if err == nil {
			var img *ebiten.Image
			var w, h int
			img, w, h, err = decodePage(data)
			if err == nil {
				m.mu.Lock()
				m.sizes[idx] = [2]int{w, h}
				m.mu.Unlock()
				m.cache.Add(idx, img)

				var mem runtime.MemStats
				runtime.ReadMemStats(&mem)
				debugLog("Cache MISS: page %d loaded (cache: %d items, memory: %dMB)",
					idx+1, m.cache.Len(), mem.Alloc/1024/1024)
				return img, nil
			}
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		errImg := CreateErrorImage(400, 300, fmt.Sprintf("Page %d", idx+1), err.Error())
		m.mu.Lock()
		m.failed[idx] = errImg
		m.mu.Unlock()
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*ebiten.Image), nil
}

// decodePage turns encoded image bytes into a GPU image
func decodePage(data []byte) (*ebiten.Image, int, int, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding page: %w", err)
	}
	b := img.Bounds()
	debugLog("Decoded %s page %dx%d", format, b.Dx(), b.Dy())
	return ebiten.NewImageFromImage(img), b.Dx(), b.Dy(), nil
}
