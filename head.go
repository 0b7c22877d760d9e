package pubseo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eringen/pubseo/markdown"
	"github.com/eringen/pubseo/seo"
)

const excerptWords = 55

// contentItem snapshots p for the SEO renderer. Lookup failures for the
// featured image degrade to "no image".
func (a *App) contentItem(p BlogPost) seo.ContentItem {
	body := markdown.ToHTML(p.Content)
	published := parseDate(p.Date)
	modified, err := time.Parse(time.RFC3339, p.Modified)
	if err != nil {
		modified = published
	}
	item := seo.ContentItem{
		ID:        p.Slug,
		Type:      p.Type,
		Title:     p.Title,
		Excerpt:   p.Summary,
		Body:      body,
		Published: published,
		Modified:  modified,
		Permalink: Permalink(a.Config.URL, p),
	}
	if item.Excerpt == "" {
		item.Excerpt = excerpt(body)
	}
	if p.FeaturedImage != "" && a.Cache != nil {
		if img, err := a.Cache.GetImage(p.FeaturedImage); err == nil {
			item.FeaturedImage = &seo.Image{
				URL:      uploadURL(a.Config.URL, img.Filename),
				Width:    img.Width,
				Height:   img.Height,
				MimeType: "image/jpeg",
			}
		}
	}
	return item
}

// singularPage is the render context for a post or page view.
func (a *App) singularPage(p BlogPost) seo.Page {
	return seo.Page{Singular: true, Item: a.contentItem(p), Meta: p.SEO}
}

// HeadTags returns the SEO head tags of the published item at slug.
func (a *App) HeadTags(slug string) ([]seo.Tag, error) {
	p, err := a.Store.GetPost(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("no published item %q: %w", slug, ErrNotFound)
		}
		return nil, err
	}
	return a.SEO.Tags(a.singularPage(p)), nil
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// excerpt returns the first words of body's text, the summary used when a
// post has none.
func excerpt(body string) string {
	words := strings.Fields(seo.StripMarkup(body))
	if len(words) <= excerptWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:excerptWords], " ") + "…"
}

func uploadURL(base, filename string) string {
	return strings.TrimSuffix(BuildURL(base, "public", uploadsSubdir, filename), "/")
}
