package pubseo

import (
	"github.com/a-h/templ"

	"github.com/eringen/pubseo/seo"
)

// Item types.
const (
	TypePost = "post"
	TypePage = "page"
)

// BlogPost is the core content type stored in SQLite and rendered by
// templates. Pages share the type; Type tells them apart.
type BlogPost struct {
	Type          string
	Title         string
	Date          string // YYYY-MM-DD
	Modified      string // RFC 3339, set on save
	Tags          []string
	Summary       string
	Link          string
	Slug          string
	Content       string
	Published     bool
	FeaturedImage string // filename in the images table, optional
	SEO           seo.Metadata
}

// Image is an uploaded image's metadata. Stored files are always JPEG.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// ListView is handed to the Home view.
type ListView struct {
	Posts     []BlogPost
	ActiveTag string
	Tags      []string
	Title     string          // document <title>
	Head      templ.Component // SEO head tags; empty for listings
	SiteURL   string
}

// PostView is handed to the Post view for a single post or page.
type PostView struct {
	Post    BlogPost
	Related []BlogPost
	Title   string          // document <title>, editor override applied
	Head    templ.Component // SEO head tags
	SiteURL string
}

// AdminFormView is handed to the AdminForm view.
type AdminFormView struct {
	Post          BlogPost
	Images        []Image
	RobotsOptions []seo.RobotsOption
	CSRFToken     string
}
