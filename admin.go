package pubseo

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubseo/seo"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Store.GetPostAny(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return a.renderAdminForm(c, post)
}

func (a *App) handleAdminNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	itemType := TypePost
	if c.QueryParam("type") == TypePage {
		itemType = TypePage
	}
	return a.renderAdminForm(c, BlogPost{Type: itemType, Date: time.Now().Format("2006-01-02")})
}

func (a *App) renderAdminForm(c echo.Context, post BlogPost) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminForm(AdminFormView{
		Post:          post,
		Images:        images,
		RobotsOptions: seo.RobotsOptions,
		CSRFToken:     CsrfToken(c),
	}))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	c.Logger().Warnf("failed admin login from %s", ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, msg := postFromForm(c)
	if msg != "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg="+msg)
	}
	if err := a.Store.SavePost(post); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

// postFromForm reads the editor form. A non-empty msg is a query-escaped
// validation message for the dashboard.
func postFromForm(c echo.Context) (BlogPost, string) {
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return BlogPost{}, "Slug+is+required.+Add+a+title+or+slug."
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return BlogPost{}, "Invalid+date+format.+Use+YYYY-MM-DD."
	}
	itemType := TypePost
	if c.FormValue("type") == TypePage {
		itemType = TypePage
	}
	tags := strings.Split(c.FormValue("tags"), ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}
	return BlogPost{
		Type:          itemType,
		Slug:          slug,
		Title:         title,
		Date:          date,
		Tags:          FilterEmpty(tags),
		Summary:       c.FormValue("summary"),
		Content:       c.FormValue("content"),
		Published:     c.FormValue("published") != "",
		FeaturedImage: strings.TrimSpace(c.FormValue("featured_image")),
		SEO: seo.Metadata{
			Title:       seo.SanitizeText(c.FormValue(seo.MetaTitle)),
			Description: seo.SanitizeText(c.FormValue(seo.MetaDescription)),
			Robots:      seo.Robots(seo.SanitizeText(c.FormValue(seo.MetaRobots))),
			Canonical:   seo.SanitizeText(c.FormValue(seo.MetaCanonical)),
		},
	}, ""
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.DeletePost(c.Param("slug")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(posts, msg, CsrfToken(c)))
}
