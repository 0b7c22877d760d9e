package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func testItem() ContentItem {
	return ContentItem{
		ID:        "hello",
		Type:      "post",
		Title:     "Hello / Wörld",
		Excerpt:   "An excerpt",
		Body:      "<p>" + words(250) + "</p>",
		Published: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Modified:  time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		Permalink: "https://example.com/blog/hello/",
	}
}

func testRenderer() *Renderer {
	return NewRenderer(Site{Name: "Example & Co", Locale: "en-us"})
}

func renderDoc(t *testing.T, r *Renderer, page Page) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, r.Head(page).Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func metaContent(doc *goquery.Document, attr, key string) (string, bool) {
	return doc.Find("meta[" + attr + "=\"" + key + "\"]").Attr("content")
}

func TestHeadNonSingularRendersNothing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := testRenderer()
	require.NoError(t, r.Render(&buf, Page{Singular: false, Item: testItem(), Meta: Metadata{Title: "x"}}))
	require.Empty(t, buf.String())
	require.Nil(t, r.Tags(Page{}))
}

func TestHeadOrder(t *testing.T) {
	t.Parallel()

	tags := testRenderer().Tags(Page{Singular: true, Item: testItem()})
	var keys []string
	for _, tag := range tags {
		keys = append(keys, tag.Key)
	}
	require.Equal(t, []string{
		"robots", "description", "canonical",
		"og:locale", "og:type", "og:title", "og:description", "og:url", "og:site_name",
		"twitter:card", "twitter:label1", "twitter:data1",
		"",
	}, keys)
	require.Equal(t, JSONLD, tags[len(tags)-1].Kind)
}

func TestHeadFallbacks(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, testRenderer(), Page{Singular: true, Item: testItem()})

	robots, _ := metaContent(doc, "name", "robots")
	require.Equal(t, "index,follow, max-image-preview:large, max-snippet:-1, max-video-preview:-1", robots)

	desc, _ := metaContent(doc, "name", "description")
	require.Equal(t, "An excerpt", desc)

	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, "https://example.com/blog/hello/", canonical)

	locale, _ := metaContent(doc, "property", "og:locale")
	require.Equal(t, "en_US", locale)

	ogType, _ := metaContent(doc, "property", "og:type")
	require.Equal(t, "article", ogType)

	title, _ := metaContent(doc, "property", "og:title")
	require.Equal(t, "Hello / Wörld", title)

	siteName, _ := metaContent(doc, "property", "og:site_name")
	require.Equal(t, "Example & Co", siteName)

	data, _ := metaContent(doc, "name", "twitter:data1")
	require.Equal(t, "2 minutes", data)

	label, _ := metaContent(doc, "name", "twitter:label1")
	require.Equal(t, "Est. reading time", label)
}

func TestHeadOverrides(t *testing.T) {
	t.Parallel()

	meta := Metadata{
		Title:       "Custom \"title\"",
		Description: "Custom <description>",
		Robots:      " noindex , nofollow ",
		Canonical:   "https://canonical.example/a b",
	}
	doc := renderDoc(t, testRenderer(), Page{Singular: true, Item: testItem(), Meta: meta})

	robots, _ := metaContent(doc, "name", "robots")
	require.Equal(t, "noindex, nofollow, max-image-preview:large, max-snippet:-1, max-video-preview:-1", robots)

	desc, _ := metaContent(doc, "name", "description")
	require.Equal(t, "Custom <description>", desc)

	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, "https://canonical.example/a%20b", canonical)

	ogURL, _ := metaContent(doc, "property", "og:url")
	require.Equal(t, "https://example.com/blog/hello/", ogURL, "og:url keeps the item permalink")

	title, _ := metaContent(doc, "property", "og:title")
	require.Equal(t, `Custom "title"`, title)
}

func TestHeadEscapesAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	meta := Metadata{Description: `"><script>alert(1)</script>`}
	require.NoError(t, testRenderer().Render(&buf, Page{Singular: true, Item: testItem(), Meta: meta}))
	out := buf.String()
	require.Contains(t, out, `content="&#34;&gt;&lt;script&gt;alert(1)&lt;/script&gt;"`)
	require.NotContains(t, out, `"><script>alert`)
}

func TestHeadRejectsUnsafeCanonical(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, testRenderer(), Page{Singular: true, Item: testItem(), Meta: Metadata{Canonical: "javascript:alert(1)"}})
	canonical, ok := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.True(t, ok)
	require.Empty(t, canonical)
}

func TestHeadWithoutImage(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, testRenderer(), Page{Singular: true, Item: testItem()})
	require.Zero(t, doc.Find(`meta[property^="og:image"]`).Length())

	card, _ := metaContent(doc, "name", "twitter:card")
	require.Equal(t, "summary", card)
}

func TestHeadImageAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		image Image
		want  []string
	}{
		{
			name:  "full",
			image: Image{URL: "https://example.com/uploads/a.jpg", Width: 800, Height: 600, MimeType: "image/jpeg"},
			want:  []string{"og:image", "og:image:width", "og:image:height", "og:image:type"},
		},
		{
			name:  "url only",
			image: Image{URL: "https://example.com/uploads/a.jpg"},
			want:  []string{"og:image"},
		},
		{
			name:  "no height",
			image: Image{URL: "https://example.com/uploads/a.jpg", Width: 800, MimeType: "image/png"},
			want:  []string{"og:image", "og:image:width", "og:image:type"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testItem()
			img := tt.image
			item.FeaturedImage = &img
			doc := renderDoc(t, testRenderer(), Page{Singular: true, Item: item})

			var got []string
			doc.Find(`meta[property^="og:image"]`).Each(func(_ int, s *goquery.Selection) {
				got = append(got, s.AttrOr("property", ""))
			})
			require.Equal(t, tt.want, got)

			card, _ := metaContent(doc, "name", "twitter:card")
			require.Equal(t, "summary_large_image", card)
		})
	}
}

func TestHeadEmptyImageURLCountsAsNoImage(t *testing.T) {
	t.Parallel()

	item := testItem()
	item.FeaturedImage = &Image{Width: 10, Height: 10}
	doc := renderDoc(t, testRenderer(), Page{Singular: true, Item: item})
	require.Zero(t, doc.Find(`meta[property^="og:image"]`).Length())
}

func TestWebPageJSONLD(t *testing.T) {
	t.Parallel()

	item := testItem()
	out := WebPageJSONLD(item, Metadata{Title: "Ünïcode / title"})

	require.Contains(t, out, `"https://example.com/blog/hello/"`, "slashes stay unescaped")
	require.Contains(t, out, "Ünïcode / title", "non-ASCII stays literal")
	require.NotContains(t, out, `\/`)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, map[string]string{
		"@context":      "https://schema.org",
		"@type":         "WebPage",
		"@id":           "https://example.com/blog/hello/",
		"url":           "https://example.com/blog/hello/",
		"name":          "Ünïcode / title",
		"datePublished": "2024-01-15T00:00:00Z",
		"dateModified":  "2024-02-01T09:30:00Z",
	}, got)
}

func TestJSONLDScriptCannotBreakOut(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	meta := Metadata{Title: "</script><script>alert(1)</script>"}
	require.NoError(t, testRenderer().Render(&buf, Page{Singular: true, Item: testItem(), Meta: meta}))
	require.Equal(t, 1, strings.Count(buf.String(), "</script>"))
}

func TestHeadKeepsMalformedPercentURLs(t *testing.T) {
	t.Parallel()

	item := testItem()
	item.Permalink = "https://example.com/a%zz/"
	doc := renderDoc(t, testRenderer(), Page{Singular: true, Item: item})

	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, "https://example.com/a%zz/", canonical)
	ogURL, _ := metaContent(doc, "property", "og:url")
	require.Equal(t, "https://example.com/a%zz/", ogURL)

	doc = renderDoc(t, testRenderer(), Page{Singular: true, Item: testItem(), Meta: Metadata{Canonical: " https://other.example/%zz?a=\"b\" "}})
	canonical, _ = doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, `https://other.example/%zz?a="b"`, canonical)
}

func TestHeadBlanksMalformedUnsafeScheme(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, testRenderer(), Page{Singular: true, Item: testItem(), Meta: Metadata{Canonical: "javascript:alert('%zz')"}})
	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Empty(t, canonical)
}

func TestWebPageJSONLDKeepsHTMLCharacters(t *testing.T) {
	t.Parallel()

	out := WebPageJSONLD(testItem(), Metadata{Title: "Tom & Jerry <3"})
	require.Contains(t, out, `"name":"Tom & Jerry <3"`)

	out = WebPageJSONLD(testItem(), Metadata{Title: "a</script><!--b"})
	require.NotContains(t, out, "</")
	require.NotContains(t, out, "<!--")
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "a</script><!--b", got["name"])
}
