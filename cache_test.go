package pubseo

import (
	"errors"
	"testing"
	"time"

	"github.com/eringen/pubseo/seo"
)

func TestPostCacheServesItemsWithMeta(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, BlogPost{Slug: "hello", Title: "Hello", Date: "2024-01-02", Published: true, Tags: []string{"go"},
		SEO: seo.Metadata{Description: "cached"}})
	mustSave(t, s, BlogPost{Slug: "about", Type: TypePage, Title: "About", Date: "2024-01-01", Published: true})
	c := NewPostCache(s, time.Minute)

	p, err := c.GetPost(TypePost, "hello")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if p.SEO.Description != "cached" {
		t.Errorf("SEO.Description = %q, want cached", p.SEO.Description)
	}
	if _, err := c.GetPost(TypePage, "about"); err != nil {
		t.Errorf("GetPost(page) failed: %v", err)
	}
	if _, err := c.GetPost(TypePage, "hello"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(page, hello) err = %v, want ErrNotFound", err)
	}
	posts, err := c.ListPosts("GO")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("ListPosts(GO) = %d posts, want 1", len(posts))
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	s := setupTestStore(t)
	c := NewPostCache(s, time.Hour)

	posts, err := c.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty site, got %d posts", len(posts))
	}

	mustSave(t, s, BlogPost{Slug: "new", Title: "New", Date: "2024-01-01", Published: true})
	if posts, _ := c.ListPosts(""); len(posts) != 0 {
		t.Errorf("cache should still serve the empty snapshot, got %d posts", len(posts))
	}

	c.Invalidate()
	posts, err = c.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("after Invalidate got %d posts, want 1", len(posts))
	}
}

func TestPostCacheServesImagesWithoutStore(t *testing.T) {
	s := setupTestStore(t)
	img := Image{Filename: "cover.jpg", Width: 1200, Height: 630}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	mustSave(t, s, BlogPost{Slug: "p", Title: "P", Date: "2024-01-01", Published: true, FeaturedImage: "cover.jpg"})
	c := NewPostCache(s, time.Hour)

	if _, err := c.GetImage("cover.jpg"); err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	// Remove the row behind the cache's back; reads stay in memory.
	if _, err := s.db.Exec(`DELETE FROM images`); err != nil {
		t.Fatal(err)
	}
	got, err := c.GetImage("cover.jpg")
	if err != nil {
		t.Fatalf("GetImage after delete failed: %v", err)
	}
	if got.Width != 1200 || got.Height != 630 {
		t.Errorf("GetImage = %+v", got)
	}
	if _, err := c.GetImage("missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetImage(missing) err = %v, want ErrNotFound", err)
	}

	a := &App{Config: SiteConfig{URL: "https://example.com"}, Cache: c}
	item := a.contentItem(BlogPost{Slug: "p", Title: "P", Date: "2024-01-01", FeaturedImage: "cover.jpg"})
	if item.FeaturedImage == nil || item.FeaturedImage.URL != "https://example.com/public/uploads/cover.jpg" {
		t.Errorf("FeaturedImage = %+v", item.FeaturedImage)
	}

	c.Invalidate()
	if _, err := c.GetImage("cover.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetImage after Invalidate err = %v, want ErrNotFound", err)
	}
}
