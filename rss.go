package pubseo

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubseo/seo"
)

const dcNamespace = "http://purl.org/dc/elements/1.1/"

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	DC      string     `xml:"xmlns:dc,attr,omitempty"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
	Creator     string `xml:"dc:creator,omitempty"`
}

// renderRSS lists posts with their SEO title and description, so the feed
// matches what search and social previews show. The site author, when set,
// is credited on every item as dc:creator.
func (a *App) renderRSS(c echo.Context, posts []BlogPost) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", p.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		item := seo.ContentItem{Title: p.Title, Excerpt: p.Summary}
		postURL := Permalink(base, p)
		items = append(items, rssItem{
			Title:       seo.ResolveTitle(item, p.SEO),
			Link:        postURL,
			Description: seo.ResolveDescription(item, p.SEO),
			PubDate:     pubDate,
			GUID:        postURL,
			Creator:     a.Config.Author,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Language:    strings.ToLower(strings.ReplaceAll(a.SEO.Site().Locale, "_", "-")),
			Items:       items,
		},
	}
	if a.Config.Author != "" {
		feed.DC = dcNamespace
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
