package pubseo

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubseo/seo"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapItems lists the posts and pages that belong in the sitemap. The
// exclusion rules run in the store query, not over the cache.
func (a *App) sitemapItems() ([]BlogPost, error) {
	var items []BlogPost
	for _, t := range seo.SitemapTypes {
		args := seo.FilterSitemapQuery(seo.QueryArgs{Type: t}, t)
		found, err := a.Store.QueryPosts(args)
		if err != nil {
			return nil, err
		}
		items = append(items, found...)
	}
	return items, nil
}

// SitemapURLs returns the sitemap entries: the home page followed by every
// included post and page.
func (a *App) SitemapURLs() ([]string, error) {
	items, err := a.sitemapItems()
	if err != nil {
		return nil, err
	}
	urls := a.sitemapEntries(items)
	locs := make([]string, len(urls))
	for i, u := range urls {
		locs[i] = u.Loc
	}
	return locs, nil
}

func (a *App) sitemapEntries(items []BlogPost) []sitemapURL {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base, "")},
	}
	for _, p := range items {
		lastMod := p.Date
		if len(p.Modified) >= len("2006-01-02") {
			lastMod = p.Modified[:len("2006-01-02")]
		}
		urls = append(urls, sitemapURL{
			Loc:     Permalink(base, p),
			LastMod: lastMod,
		})
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context, items []BlogPost) error {
	urls := a.sitemapEntries(items)
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
