package seo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTitle(t *testing.T) {
	t.Parallel()

	item := ContentItem{Title: "Hello World"}
	require.Equal(t, "Hello World", ResolveTitle(item, Metadata{}))
	require.Equal(t, "Custom", ResolveTitle(item, Metadata{Title: "Custom"}))
}

func TestResolveDescription(t *testing.T) {
	t.Parallel()

	item := ContentItem{Excerpt: "An excerpt"}
	require.Equal(t, "An excerpt", ResolveDescription(item, Metadata{}))
	require.Equal(t, "Custom", ResolveDescription(item, Metadata{Description: "Custom"}))
}

func TestResolveRobots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		robots Robots
		want   string
	}{
		{"", "index,follow, max-image-preview:large, max-snippet:-1, max-video-preview:-1"},
		{"   ", ", max-image-preview:large, max-snippet:-1, max-video-preview:-1"},
		{" noindex , nofollow ", "noindex, nofollow, max-image-preview:large, max-snippet:-1, max-video-preview:-1"},
		{NoindexFollow, "noindex, follow, max-image-preview:large, max-snippet:-1, max-video-preview:-1"},
		{"none", "none, max-image-preview:large, max-snippet:-1, max-video-preview:-1"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ResolveRobots(Metadata{Robots: tt.robots}), "robots %q", tt.robots)
	}
}

func TestResolveCanonical(t *testing.T) {
	t.Parallel()

	item := ContentItem{Permalink: "https://example.com/blog/a/"}
	require.Equal(t, "https://example.com/blog/a/", ResolveCanonical(item, Metadata{}))
	require.Equal(t, "https://other.example/a", ResolveCanonical(item, Metadata{Canonical: "https://other.example/a"}))
}

func TestDocumentTitle(t *testing.T) {
	t.Parallel()

	meta := Metadata{Title: "Override"}
	require.Equal(t, "Override", DocumentTitle(Page{Singular: true, Meta: meta}, "Post | Blog"))
	require.Equal(t, "Post | Blog", DocumentTitle(Page{Singular: true}, "Post | Blog"))
	require.Equal(t, "Archive | Blog", DocumentTitle(Page{Singular: false, Meta: meta}, "Archive | Blog"))
}

func TestMetadataValuesRoundTrip(t *testing.T) {
	t.Parallel()

	meta := Metadata{Title: "T", Robots: NoindexNofollow}
	values := meta.Values()
	require.Equal(t, map[string]string{MetaTitle: "T", MetaRobots: "noindex,nofollow"}, values)
	require.Equal(t, meta, MetadataFromValues(values))
	require.True(t, MetadataFromValues(nil).IsZero())
}
