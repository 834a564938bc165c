package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// CookieName identifies an anonymous browser session.
	CookieName = "newsify_session"
	// UserHeader carries the authenticated user id, set by the auth
	// layer in front of this service. Empty means anonymous.
	UserHeader = "X-User-ID"

	contextKey = "newsify.session"

	cookieMaxAge = 60 * 60 * 24 * 365
)

// Middleware ensures every request carries a session id, minting a new
// UUID cookie for first-time visitors.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(CookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   cookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(contextKey, id)
			return next(c)
		}
	}
}

// ID returns the request's session id. Empty only when the middleware
// is not installed.
func ID(c echo.Context) string {
	if id, ok := c.Get(contextKey).(string); ok {
		return id
	}
	return ""
}

// UserID returns the authenticated user id, or empty for anonymous
// callers.
func UserID(c echo.Context) string {
	return c.Request().Header.Get(UserHeader)
}
