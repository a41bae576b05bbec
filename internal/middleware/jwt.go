package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// accessCookieName is the cookie consulted when no Authorization header
// is present, so browser flows work without a client-side token store.
const accessCookieName = "access_token"

// JWTAuth returns an Echo middleware that validates a Bearer (or cookie)
// access token and injects the token's subject and role claims into the
// request context. The provided secret must match the one used when
// issuing tokens. Handlers behind it read the authenticated identity
// via c.Get("user_id") and c.Get("role"). Anonymous requests receive a
// 401 JSON response.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return jwtAuth(secret, func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	})
}

// JWTAuthRedirect behaves like JWTAuth but handles anonymous requests
// the way the browser-facing pages expect: a 302 to the login route
// carrying the originally requested path in a `next` query parameter.
func JWTAuthRedirect(secret, loginPath string) echo.MiddlewareFunc {
	return jwtAuth(secret, func(c echo.Context) error {
		next := c.Request().URL.RequestURI()
		return c.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(next))
	})
}

// jwtAuth is the shared implementation; onAnonymous decides what an
// unauthenticated request gets back.
func jwtAuth(secret string, onAnonymous func(echo.Context) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			} else if ck, err := c.Cookie(accessCookieName); err == nil && ck.Value != "" {
				raw = ck.Value
			}
			if raw == "" {
				return onAnonymous(c)
			}

			// Parse with HS256 only; any other signing method is
			// rejected by the key callback.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return onAnonymous(c)
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return onAnonymous(c)
			}

			// Store the subject (user ID) and role claims in the
			// context for handlers and downstream middleware.
			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}
