package pubseo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubseo/seo"
)

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	title := a.Config.Name
	if tag != "" {
		title = "#" + tag + " | " + a.Config.Name
	}
	listing := seo.Page{Singular: false}
	return Render(c, a.Views.Home(ListView{
		Posts:     posts,
		ActiveTag: tag,
		Tags:      tags,
		Title:     seo.DocumentTitle(listing, title),
		Head:      a.SEO.Head(listing),
		SiteURL:   a.Config.URL,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	return a.renderItem(c, TypePost, c.Param("slug"))
}

func (a *App) handlePage(c echo.Context) error {
	return a.renderItem(c, TypePage, c.Param("slug"))
}

func (a *App) renderItem(c echo.Context, itemType, slug string) error {
	post, err := a.Cache.GetPost(itemType, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	var related []BlogPost
	if itemType == TypePost {
		posts, err := a.Cache.ListPosts("")
		if err != nil {
			return err
		}
		related = FilterRelatedPosts(post, posts)
	}
	page := a.singularPage(post)
	return Render(c, a.Views.Post(PostView{
		Post:    post,
		Related: related,
		Title:   seo.DocumentTitle(page, post.Title+" | "+a.Config.Name),
		Head:    a.SEO.Head(page),
		SiteURL: a.Config.URL,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	items, err := a.sitemapItems()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, items)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
