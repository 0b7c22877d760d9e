package pubseo

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/eringen/pubseo/seo"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustSave(t *testing.T, s *Store, p BlogPost) {
	t.Helper()
	if err := s.SavePost(p); err != nil {
		t.Fatalf("SavePost(%s) failed: %v", p.Slug, err)
	}
}

func slugs(posts []BlogPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	sort.Strings(out)
	return out
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := BlogPost{
		Slug:      "test-post",
		Title:     "Test Post",
		Date:      "2024-01-15",
		Tags:      []string{"Go", " testing "},
		Summary:   "A test post summary",
		Content:   "# Test Content\n\nThis is test content.",
		Published: true,
	}
	mustSave(t, s, post)

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Type != TypePost {
		t.Errorf("Type = %q, want %q", got.Type, TypePost)
	}
	if got.Title != post.Title || got.Content != post.Content || got.Summary != post.Summary {
		t.Errorf("got %+v, want fields of %+v", got, post)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
	if got.Link != "/blog/test-post" {
		t.Errorf("Link = %q, want /blog/test-post", got.Link)
	}
	if got.Modified == "" {
		t.Error("Modified should be stamped on save")
	}
	if !got.SEO.IsZero() {
		t.Errorf("SEO = %+v, want zero", got.SEO)
	}
}

func TestGetPostHidesDrafts(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, BlogPost{Slug: "draft", Title: "Draft", Date: "2024-01-01"})

	if _, err := s.GetPost("draft"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPost(draft) err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetPostAny("draft"); err != nil {
		t.Fatalf("GetPostAny(draft) failed: %v", err)
	}
}

func TestPagesAreNotListedAsPosts(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, BlogPost{Slug: "about", Type: TypePage, Title: "About", Date: "2024-01-01", Published: true})
	mustSave(t, s, BlogPost{Slug: "hello", Title: "Hello", Date: "2024-01-02", Published: true, Tags: []string{"intro"}})

	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if got := slugs(posts); len(got) != 1 || got[0] != "hello" {
		t.Errorf("ListPosts = %v, want [hello]", got)
	}
	pages, err := s.ListPages()
	if err != nil {
		t.Fatalf("ListPages failed: %v", err)
	}
	if len(pages) != 1 || pages[0].Link != "/about" {
		t.Errorf("ListPages = %+v, want one page at /about", pages)
	}
	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0] != "intro" {
		t.Errorf("ListTags = %v, want [intro]", tags)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	meta := seo.Metadata{
		Title:       "Override",
		Description: "Custom description",
		Robots:      seo.NoindexNofollow,
		Canonical:   "https://other.example/x",
	}
	mustSave(t, s, BlogPost{Slug: "p", Title: "P", Date: "2024-01-01", Published: true, SEO: meta})

	got, err := s.GetMeta("p")
	if err != nil {
		t.Fatalf("GetMeta failed: %v", err)
	}
	if got != meta {
		t.Errorf("GetMeta = %+v, want %+v", got, meta)
	}
	post, err := s.GetPost("p")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if post.SEO != meta {
		t.Errorf("post.SEO = %+v, want %+v", post.SEO, meta)
	}
	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(all) != 1 || all[0].SEO != meta {
		t.Errorf("ListAllPosts SEO = %+v, want %+v", all, meta)
	}
}

func TestSaveMetaDeletesEmptyFields(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, BlogPost{Slug: "p", Title: "P", Date: "2024-01-01", SEO: seo.Metadata{
		Title:  "Override",
		Robots: seo.NoindexFollow,
	}})

	if err := s.SaveMeta("p", seo.Metadata{Title: "Kept"}); err != nil {
		t.Fatalf("SaveMeta failed: %v", err)
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM post_meta WHERE slug = ?`, "p").Scan(&n); err != nil {
		t.Fatalf("count meta: %v", err)
	}
	if n != 1 {
		t.Errorf("post_meta rows = %d, want 1", n)
	}
	got, err := s.GetMeta("p")
	if err != nil {
		t.Fatalf("GetMeta failed: %v", err)
	}
	if got != (seo.Metadata{Title: "Kept"}) {
		t.Errorf("GetMeta = %+v, want only Title", got)
	}
}

func TestDeletePostRemovesMeta(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, BlogPost{Slug: "gone", Title: "Gone", Date: "2024-01-01", SEO: seo.Metadata{Description: "d"}})

	if err := s.DeletePost("gone"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPostAny("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPostAny after delete err = %v, want ErrNotFound", err)
	}
	got, err := s.GetMeta("gone")
	if err != nil {
		t.Fatalf("GetMeta failed: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("GetMeta after delete = %+v, want zero", got)
	}
}

func TestSitemapQueryMatchesPredicate(t *testing.T) {
	s := setupTestStore(t)
	items := []BlogPost{
		{Slug: "plain"},
		{Slug: "indexed", SEO: seo.Metadata{Robots: seo.IndexNofollow}},
		{Slug: "noindex", SEO: seo.Metadata{Robots: seo.NoindexFollow}},
		{Slug: "noindex-upper", SEO: seo.Metadata{Robots: "NOINDEX, nofollow"}},
		{Slug: "canonical", SEO: seo.Metadata{Canonical: "https://other.example/"}},
		{Slug: "titled", SEO: seo.Metadata{Title: "T", Description: "D"}},
		{Slug: "literal-percent", SEO: seo.Metadata{Robots: "index,follow,100%"}},
	}
	var want []string
	for _, p := range items {
		p.Title, p.Date, p.Published = p.Slug, "2024-01-01", true
		mustSave(t, s, p)
		if !seo.ExcludeFromSitemap(p.SEO) {
			want = append(want, p.Slug)
		}
	}
	mustSave(t, s, BlogPost{Slug: "draft", Title: "Draft", Date: "2024-01-01"})
	sort.Strings(want)

	args := seo.FilterSitemapQuery(seo.QueryArgs{Type: TypePost}, TypePost)
	found, err := s.QueryPosts(args)
	if err != nil {
		t.Fatalf("QueryPosts failed: %v", err)
	}
	got := slugs(found)
	if len(got) != len(want) {
		t.Fatalf("QueryPosts = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("QueryPosts = %v, want %v", got, want)
		}
	}
	for _, p := range found {
		if !args.Match(p.SEO.Values()) {
			t.Errorf("%s returned by SQL but rejected by Match", p.Slug)
		}
	}
}

func TestQueryPostsFiltersType(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, BlogPost{Slug: "about", Type: TypePage, Title: "About", Date: "2024-01-01", Published: true})
	mustSave(t, s, BlogPost{Slug: "hello", Title: "Hello", Date: "2024-01-01", Published: true})

	pages, err := s.QueryPosts(seo.FilterSitemapQuery(seo.QueryArgs{Type: TypePage}, TypePage))
	if err != nil {
		t.Fatalf("QueryPosts failed: %v", err)
	}
	if got := slugs(pages); len(got) != 1 || got[0] != "about" {
		t.Errorf("QueryPosts(page) = %v, want [about]", got)
	}
}

func TestQueryPostsRejectsUnknownCompare(t *testing.T) {
	s := setupTestStore(t)
	args := seo.QueryArgs{MetaQuery: []seo.MetaGroup{{Clauses: []seo.MetaClause{{Key: seo.MetaRobots, Compare: "REGEXP"}}}}}
	if _, err := s.QueryPosts(args); err == nil {
		t.Fatal("expected error for unsupported compare")
	}
}

func TestImages(t *testing.T) {
	s := setupTestStore(t)
	img := Image{Filename: "cover.jpg", OriginalName: "Cover.PNG", Width: 1200, Height: 630, Size: 1000, UploadedAt: "2024-01-01T00:00:00Z"}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	mustSave(t, s, BlogPost{Slug: "p", Title: "P", Date: "2024-01-01", FeaturedImage: "cover.jpg"})

	got, err := s.GetImage("cover.jpg")
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if got != img {
		t.Errorf("GetImage = %+v, want %+v", got, img)
	}

	if err := s.DeleteImage("cover.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	images, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("ListImages = %v, want empty", images)
	}
	p, err := s.GetPostAny("p")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if p.FeaturedImage != "" {
		t.Errorf("FeaturedImage = %q, want cleared", p.FeaturedImage)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{",", 0},
		{",go,", 1},
		{",go,web,", 2},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.input); len(got) != tt.want {
			t.Errorf("ParseTags(%q) = %v, want %d tags", tt.input, got, tt.want)
		}
	}
}
