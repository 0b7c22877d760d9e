package pubseo

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const contentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	// Plain HTML forms send DELETE as POST with _method.
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))

	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:   5,
		Skipper: isStatic,
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	}))
	e.Use(session.Middleware(a.newSessionStore()))
	e.Use(middleware.CSRFWithConfig(a.csrfConfig()))
	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper:      keepsExactPath,
	}))
	e.Use(robotsHeaders)
}

// requestLogger logs every request and names the crawler behind it, so
// sitemap and item fetches by search engines show up in the log.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if bot := crawlerName(v.UserAgent); bot != "" {
				c.Logger().Infof("%s %s -> %d (%s) crawler=%s", v.Method, v.URI, v.Status, v.Latency, bot)
				return nil
			}
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	})
}

var crawlers = []struct{ pattern, name string }{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"duckduckbot", "DuckDuckBot"},
	{"yandex", "Yandex"},
	{"baiduspider", "Baidu"},
	{"applebot", "Applebot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"slurp", "Yahoo Slurp"},
}

// crawlerName returns the search or social crawler named by ua, or "".
func crawlerName(ua string) string {
	ua = strings.ToLower(ua)
	for _, c := range crawlers {
		if strings.Contains(ua, c.pattern) {
			return c.name
		}
	}
	if strings.Contains(ua, "bot") || strings.Contains(ua, "spider") || strings.Contains(ua, "crawler") {
		return "other"
	}
	return ""
}

func (a *App) csrfConfig() middleware.CSRFConfig {
	return middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}
}

func isStatic(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/public/")
}

// keepsExactPath skips the trailing-slash redirect for files and for /blog,
// which redirects home on its own.
func keepsExactPath(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/public") || isCrawlerFile(path) ||
		path == "/blog" || path == "/favicon.svg"
}

func isCrawlerFile(path string) bool {
	return path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt"
}

// robotsHeaders sets caching headers and X-Robots-Tag for responses that
// carry no head tags of their own: the admin area is kept out of indexes
// and the feed is followed but not indexed.
func robotsHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		h := c.Response().Header()
		switch {
		case strings.HasPrefix(path, "/public/uploads/"):
			h.Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/public/"):
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/feed.xml":
			h.Set("Cache-Control", "public, max-age=3600")
			h.Set("X-Robots-Tag", "noindex, follow")
		case isCrawlerFile(path):
			// Sitemap membership changes whenever an editor saves SEO fields.
			h.Set("Cache-Control", "public, max-age=3600")
		case strings.HasPrefix(path, "/admin"):
			h.Set("Cache-Control", "no-store")
			h.Set("X-Robots-Tag", "noindex, nofollow")
		default:
			h.Set("Cache-Control", "public, max-age=600")
		}
		return next(c)
	}
}
