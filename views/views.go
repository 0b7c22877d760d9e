// Package views is the default set of templ components for a pubseo site.
// Sites that want their own markup supply a different pubseo.ViewFuncs.
//
//go:generate templ generate
package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pubseo"
	"github.com/eringen/pubseo/seo"
)

// SiteConfig holds the values the default templates print.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
}

// Funcs returns ViewFuncs backed by the default templates.
func Funcs(cfg SiteConfig) pubseo.ViewFuncs {
	return pubseo.ViewFuncs{
		Home:           func(v pubseo.ListView) templ.Component { return Home(cfg, v) },
		Post:           func(v pubseo.PostView) templ.Component { return Post(cfg, v) },
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminForm:      AdminForm,
		AdminImages:    AdminImages,
		NotFound:       func() templ.Component { return Message(cfg, "Not found", "The page you are looking for does not exist.") },
		ServerError:    func() templ.Component { return Message(cfg, "Server error", "Something went wrong. Please try again later.") },
	}
}

func itemURL(p pubseo.BlogPost) templ.SafeURL {
	return templ.URL(p.Link + "/")
}

func publishState(p pubseo.BlogPost) string {
	if p.Published {
		return "published"
	}
	return "draft"
}

func sitemapState(p pubseo.BlogPost) string {
	if seo.ExcludeFromSitemap(p.SEO) {
		return "excluded"
	}
	return "listed"
}

func imageLabel(img pubseo.Image) string {
	return img.Filename + " (" + strconv.Itoa(img.Width) + "×" + strconv.Itoa(img.Height) + ")"
}
