package pubseo

import (
	"database/sql"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// PostCache is an in-memory cache of published posts, pages, tags and image
// rows with TTL. Cached items carry their SEO metadata and featured image
// dimensions, so between reloads a page render does not touch SQLite.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	pages   []BlogPost
	tags    []string
	images  map[string]Image
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

type cacheSnapshot struct {
	posts  []BlogPost
	pages  []BlogPost
	tags   []string
	images map[string]Image
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.pages = nil
	c.tags = nil
	c.images = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return err
	}
	pages, err := c.store.ListPages()
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	images, err := c.store.ListImages()
	if err != nil {
		return err
	}
	byName := make(map[string]Image, len(images))
	for _, img := range images {
		byName[img.Filename] = img
	}
	if posts == nil {
		// Non-nil marks the cache as loaded even for an empty site.
		posts = []BlogPost{}
	}
	c.posts = posts
	c.pages = pages
	c.tags = tags
	c.images = byName
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached snapshot after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() (cacheSnapshot, error) {
	c.mu.RLock()
	if c.valid() {
		snap := cacheSnapshot{posts: c.posts, pages: c.pages, tags: c.tags, images: c.images}
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return cacheSnapshot{}, err
	}
	return cacheSnapshot{posts: c.posts, pages: c.pages, tags: c.tags, images: c.images}, nil
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]BlogPost, error) {
	snap, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return snap.posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []BlogPost
	for _, p := range snap.posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListPages returns published pages.
func (c *PostCache) ListPages() ([]BlogPost, error) {
	snap, err := c.ensureLoaded()
	return snap.pages, err
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	snap, err := c.ensureLoaded()
	return snap.tags, err
}

// GetPost returns a single published item of itemType by slug.
func (c *PostCache) GetPost(itemType, slug string) (BlogPost, error) {
	snap, err := c.ensureLoaded()
	if err != nil {
		return BlogPost{}, err
	}
	items := snap.posts
	if itemType == TypePage {
		items = snap.pages
	}
	for _, p := range items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// GetImage returns the cached metadata of an uploaded image.
func (c *PostCache) GetImage(filename string) (Image, error) {
	snap, err := c.ensureLoaded()
	if err != nil {
		return Image{}, err
	}
	img, ok := snap.images[filename]
	if !ok {
		return Image{}, ErrNotFound
	}
	return img, nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
