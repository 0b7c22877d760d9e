// Package seo resolves per-item SEO metadata and renders the matching head
// tags, Open Graph and Twitter Card tags, and JSON-LD structured data.
//
// The package is host-agnostic: callers hand it an immutable ContentItem
// snapshot plus the stored Metadata and receive markup back.
package seo

import (
	"strings"
	"time"
)

// Robots is a stored robots directive such as "noindex,follow".
type Robots string

const (
	IndexFollow     Robots = "index,follow"
	NoindexFollow   Robots = "noindex,follow"
	IndexNofollow   Robots = "index,nofollow"
	NoindexNofollow Robots = "noindex,nofollow"
)

// RobotsOption is one entry of the robots select in the editor form.
type RobotsOption struct {
	Label string
	Value Robots
}

// RobotsOptions lists the directives an editor can choose from.
var RobotsOptions = []RobotsOption{
	{Label: "Index, Follow", Value: IndexFollow},
	{Label: "Noindex, Follow", Value: NoindexFollow},
	{Label: "Index, Nofollow", Value: IndexNofollow},
	{Label: "Noindex, Nofollow", Value: NoindexNofollow},
}

// Storage keys for the four editable fields.
const (
	MetaTitle       = "seo_title"
	MetaDescription = "seo_description"
	MetaRobots      = "seo_robots"
	MetaCanonical   = "seo_canonical"
)

// MetaKeys lists every key Metadata is stored under.
var MetaKeys = []string{MetaTitle, MetaDescription, MetaRobots, MetaCanonical}

// Metadata is the editor-controlled SEO record of one content item.
// Empty fields mean "unset" and fall back at render time.
type Metadata struct {
	Title       string
	Description string
	Robots      Robots
	Canonical   string
}

// Values returns the non-empty fields keyed by their storage key.
func (m Metadata) Values() map[string]string {
	out := make(map[string]string, len(MetaKeys))
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set(MetaTitle, m.Title)
	set(MetaDescription, m.Description)
	set(MetaRobots, string(m.Robots))
	set(MetaCanonical, m.Canonical)
	return out
}

// IsZero reports whether no field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// MetadataFromValues builds Metadata from stored key/value pairs.
// Unknown keys are ignored.
func MetadataFromValues(values map[string]string) Metadata {
	return Metadata{
		Title:       values[MetaTitle],
		Description: values[MetaDescription],
		Robots:      Robots(values[MetaRobots]),
		Canonical:   values[MetaCanonical],
	}
}

// Image is a featured image reference. Zero Width, Height or MimeType means
// the attribute is unknown.
type Image struct {
	URL      string
	Width    int
	Height   int
	MimeType string
}

// ContentItem is the snapshot of a post or page taken at render time.
type ContentItem struct {
	ID            string
	Type          string // "post" or "page"
	Title         string
	Excerpt       string
	Body          string // markup; stripped before counting words
	Published     time.Time
	Modified      time.Time
	Permalink     string
	FeaturedImage *Image
}

// HasImage reports whether the item carries a usable featured image.
func (c ContentItem) HasImage() bool {
	return c.FeaturedImage != nil && strings.TrimSpace(c.FeaturedImage.URL) != ""
}

// Site holds the site-wide values the renderer needs.
type Site struct {
	Name   string
	Locale string
}

// Page is the render context handed to the renderer. Singular is true when
// exactly one item is displayed; Item and Meta are ignored otherwise.
type Page struct {
	Singular bool
	Item     ContentItem
	Meta     Metadata
}
