package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// TagKind selects the element and key attribute a Tag renders as.
type TagKind int

const (
	MetaName     TagKind = iota // <meta name=Key content=Value>
	MetaProperty                // <meta property=Key content=Value>
	LinkRel                     // <link rel=Key href=Value>
	JSONLD                      // <script type="application/ld+json">Value</script>
)

// Tag is one rendered head element. Value is unescaped except for URLs,
// which are already URL-escaped.
type Tag struct {
	Kind  TagKind
	Key   string
	Value string
}

// String renders the tag as a single line of HTML.
func (t Tag) String() string {
	switch t.Kind {
	case MetaProperty:
		return `<meta property="` + templ.EscapeString(t.Key) + `" content="` + templ.EscapeString(t.Value) + `" />`
	case LinkRel:
		return `<link rel="` + templ.EscapeString(t.Key) + `" href="` + templ.EscapeString(t.Value) + `" />`
	case JSONLD:
		return `<script type="application/ld+json">` + t.Value + `</script>`
	default:
		return `<meta name="` + templ.EscapeString(t.Key) + `" content="` + templ.EscapeString(t.Value) + `" />`
	}
}

// Renderer turns a Page into head markup for one site.
type Renderer struct {
	site Site
}

// NewRenderer returns a Renderer for site. The locale is normalized once.
func NewRenderer(site Site) *Renderer {
	site.Locale = NormalizeLocale(site.Locale)
	return &Renderer{site: site}
}

// Site returns the site settings the renderer was built with.
func (r *Renderer) Site() Site {
	return r.site
}

// Tags returns the head elements for page in output order. Non-singular
// pages yield nil.
func (r *Renderer) Tags(page Page) []Tag {
	if !page.Singular {
		return nil
	}
	item, meta := page.Item, page.Meta
	title := ResolveTitle(item, meta)
	description := ResolveDescription(item, meta)
	permalink := escapeURL(item.Permalink)

	tags := []Tag{
		{Kind: MetaName, Key: "robots", Value: ResolveRobots(meta)},
		{Kind: MetaName, Key: "description", Value: description},
		{Kind: LinkRel, Key: "canonical", Value: escapeURL(ResolveCanonical(item, meta))},
		{Kind: MetaProperty, Key: "og:locale", Value: r.site.Locale},
		{Kind: MetaProperty, Key: "og:type", Value: "article"},
		{Kind: MetaProperty, Key: "og:title", Value: title},
		{Kind: MetaProperty, Key: "og:description", Value: description},
		{Kind: MetaProperty, Key: "og:url", Value: permalink},
		{Kind: MetaProperty, Key: "og:site_name", Value: r.site.Name},
	}

	card := "summary"
	if item.HasImage() {
		card = "summary_large_image"
		img := item.FeaturedImage
		tags = append(tags, Tag{Kind: MetaProperty, Key: "og:image", Value: escapeURL(img.URL)})
		if img.Width > 0 {
			tags = append(tags, Tag{Kind: MetaProperty, Key: "og:image:width", Value: strconv.Itoa(img.Width)})
		}
		if img.Height > 0 {
			tags = append(tags, Tag{Kind: MetaProperty, Key: "og:image:height", Value: strconv.Itoa(img.Height)})
		}
		if img.MimeType != "" {
			tags = append(tags, Tag{Kind: MetaProperty, Key: "og:image:type", Value: img.MimeType})
		}
	}

	tags = append(tags,
		Tag{Kind: MetaName, Key: "twitter:card", Value: card},
		Tag{Kind: MetaName, Key: "twitter:label1", Value: "Est. reading time"},
		Tag{Kind: MetaName, Key: "twitter:data1", Value: ReadingTime(item.Body)},
		Tag{Kind: JSONLD, Value: WebPageJSONLD(item, meta)},
	)
	return tags
}

// Render writes the head elements for page to w, one per line.
func (r *Renderer) Render(w io.Writer, page Page) error {
	var b strings.Builder
	for _, t := range r.Tags(page) {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Head returns page's head elements as a templ component.
func (r *Renderer) Head(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.Render(w, page)
	})
}

type webPage struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	ID            string `json:"@id"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	DatePublished string `json:"datePublished"`
	DateModified  string `json:"dateModified"`
}

// scriptSafe escapes the only sequences that can end or corrupt a script
// element. Both replacements decode to the same JSON string.
var scriptSafe = strings.NewReplacer("</", `<\/`, "<!--", `\u003c!--`)

// WebPageJSONLD returns the schema.org WebPage object for item. Slashes,
// HTML characters and non-ASCII text are left literal, except where "</" or
// "<!--" would let the payload close its script element.
func WebPageJSONLD(item ContentItem, meta Metadata) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(webPage{
		Context:       "https://schema.org",
		Type:          "WebPage",
		ID:            item.Permalink,
		URL:           item.Permalink,
		Name:          ResolveTitle(item, meta),
		DatePublished: isoDate(item.Published),
		DateModified:  isoDate(item.Modified),
	})
	if err != nil {
		return "{}"
	}
	return scriptSafe.Replace(strings.TrimSuffix(buf.String(), "\n"))
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// escapeURL percent-encodes raw for use in an href or content attribute.
// Only http, https and scheme-less references survive; anything else, such
// as javascript:, renders as empty. A value url.Parse rejects, such as one
// with a bad percent escape, is kept as written.
func escapeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	u, err := url.Parse(val)
	if err != nil {
		if allowedScheme(rawScheme(val)) {
			return val
		}
		return ""
	}
	if !allowedScheme(u.Scheme) {
		return ""
	}
	return u.String()
}

func allowedScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "", "http", "https":
		return true
	}
	return false
}

// rawScheme returns the scheme prefix of an unparsed URL, or "" when there
// is none.
func rawScheme(s string) string {
	for i, r := range s {
		switch {
		case r == ':':
			return s[:i]
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return ""
}
