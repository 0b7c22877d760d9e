package pubseo_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubseo"
	"github.com/eringen/pubseo/seo"
	"github.com/eringen/pubseo/views"
)

func newTestApp(t *testing.T) *pubseo.App {
	t.Helper()
	dir := t.TempDir()
	cfg := pubseo.SiteConfig{
		Name:          "Field Notes",
		URL:           "https://example.com",
		Locale:        "en_GB",
		Author:        "Ada Writer",
		DatabasePath:  filepath.Join(dir, "blog.db"),
		AdminPassword: "admin",
		SessionSecret: "test-secret-test-secret-test-secret",
	}
	app := pubseo.New(cfg, views.Funcs(views.SiteConfig{Name: cfg.Name, URL: cfg.URL}), pubseo.WithStaticDir(dir))
	require.NoError(t, app.Init())
	t.Cleanup(func() { app.Close() })

	posts := []pubseo.BlogPost{
		{Slug: "hello", Title: "Hello", Date: "2024-05-01", Content: "Hello **world**, nice to meet you.", Published: true,
			SEO: seo.Metadata{Title: "Hello, Override", Description: "Custom <description>"}},
		{Slug: "hidden", Title: "Hidden", Date: "2024-05-02", Content: "Hidden.", Published: true,
			SEO: seo.Metadata{Robots: seo.NoindexNofollow}},
		{Slug: "syndicated", Title: "Syndicated", Date: "2024-05-03", Content: "Elsewhere.", Published: true,
			SEO: seo.Metadata{Canonical: "https://other.example/original"}},
		{Slug: "about", Type: pubseo.TypePage, Title: "About", Date: "2024-01-01", Content: "About us.", Published: true},
	}
	for _, p := range posts {
		require.NoError(t, app.Store.SavePost(p))
	}
	return app
}

func get(t *testing.T, app *pubseo.App, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestPostViewCarriesHeadTags(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/blog/hello/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, "Hello, Override", doc.Find("title").Text())
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "Custom <description>", desc)
	robots, _ := doc.Find(`meta[name="robots"]`).Attr("content")
	assert.True(t, strings.HasPrefix(robots, "index,follow, max-image-preview:large"))
	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	assert.Equal(t, "https://example.com/blog/hello/", canonical)
	locale, _ := doc.Find(`meta[property="og:locale"]`).Attr("content")
	assert.Equal(t, "en_GB", locale)
	card, _ := doc.Find(`meta[name="twitter:card"]`).Attr("content")
	assert.Equal(t, "summary", card)
	reading, _ := doc.Find(`meta[name="twitter:data1"]`).Attr("content")
	assert.Equal(t, "1 minutes", reading)
	assert.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), `"@type":"WebPage"`)
}

func TestNoindexPostStillRendersWithRobotsTag(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/blog/hidden/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, "Hidden | Field Notes", doc.Find("title").Text())
	robots, _ := doc.Find(`meta[name="robots"]`).Attr("content")
	assert.True(t, strings.HasPrefix(robots, "noindex, nofollow, "))
}

func TestPageView(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/about/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	assert.Equal(t, "https://example.com/about/", canonical)

	rec = get(t, app, "/blog/about/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHomeHasNoHeadTags(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)

	assert.Equal(t, "Field Notes", doc.Find("title").Text())
	assert.Equal(t, 0, doc.Find(`meta[name="robots"]`).Length())
	assert.Equal(t, 0, doc.Find(`link[rel="canonical"]`).Length())
	assert.Equal(t, 0, doc.Find(`script[type="application/ld+json"]`).Length())
	assert.Equal(t, 3, doc.Find("ul.posts li").Length())
}

func TestSitemapExcludesNoindexAndCanonical(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<loc>https://example.com/blog/hello/</loc>")
	assert.Contains(t, body, "<loc>https://example.com/about/</loc>")
	assert.NotContains(t, body, "hidden")
	assert.NotContains(t, body, "syndicated")

	urls, err := app.SitemapURLs()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/", "https://example.com/blog/hello/", "https://example.com/about/"}, urls)
}

func TestUnknownPostIs404(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/blog/nope/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found")
}

func TestAdminIsNoindex(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/admin/")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "noindex, nofollow", rec.Header().Get("X-Robots-Tag"))
	assert.Contains(t, rec.Body.String(), `name="password"`)
}

func TestHeadTags(t *testing.T) {
	app := newTestApp(t)
	tags, err := app.HeadTags("hello")
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	assert.Equal(t, "robots", tags[0].Key)

	_, err = app.HeadTags("missing")
	assert.ErrorIs(t, err, pubseo.ErrNotFound)
}

func TestFeedUsesResolvedFieldsAndAuthor(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `xmlns:dc="http://purl.org/dc/elements/1.1/"`)
	assert.Contains(t, body, "<title>Hello, Override</title>")
	assert.Contains(t, body, "<description>Custom &lt;description&gt;</description>")
	assert.Equal(t, 3, strings.Count(body, "<dc:creator>Ada Writer</dc:creator>"))
	assert.Contains(t, body, "<language>en-gb</language>")
	assert.Equal(t, "noindex, follow", rec.Header().Get("X-Robots-Tag"))

	rec = get(t, app, "/sitemap.xml")
	assert.Empty(t, rec.Header().Get("X-Robots-Tag"))
}
