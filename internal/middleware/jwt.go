package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/online-market/internal/model"
    "github.com/iliyamo/online-market/internal/utils"
)

// Context keys under which the authenticated principal is stored.  Handlers
// read them back through CurrentPrincipal.
const (
    ctxUserID = "user_id"
    ctxEmail  = "email"
    ctxRole   = "role"
)

// ExtractBearer pulls the raw token out of an Authorization header.  It is a
// pure function so the gate can be tested without a request in flight.
func ExtractBearer(header string) (string, bool) {
    if !strings.HasPrefix(header, "Bearer ") {
        return "", false
    }
    return strings.TrimPrefix(header, "Bearer "), true
}

// JWTAuth returns an Echo middleware that authenticates a request from its
// Bearer access token and stores the principal in the request context.  The
// gate is a composition of pure steps: extract the bearer token, parse and
// verify it, reject refresh tokens presented as access tokens.  Every
// authentication failure is a 401; role checks come later and are 403.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := ExtractBearer(c.Request().Header.Get("Authorization"))
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            claims, err := utils.ParseToken(secret, raw)
            if err != nil {
                // Expired and malformed tokens both fail authentication.
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            if claims.Kind == utils.KindRefresh {
                // Refresh tokens only mint new access tokens; they never
                // authorize API calls directly.
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "wrong token type"})
            }

            c.Set(ctxUserID, claims.UserID)
            c.Set(ctxEmail, claims.Email)
            c.Set(ctxRole, claims.Role)
            return next(c)
        }
    }
}

// CurrentPrincipal rebuilds the principal stored by JWTAuth.  The second
// return is false when the middleware did not run (unprotected route).
func CurrentPrincipal(c echo.Context) (model.Principal, bool) {
    id, ok := c.Get(ctxUserID).(uint64)
    if !ok {
        return model.Principal{}, false
    }
    email, ok := c.Get(ctxEmail).(string)
    if !ok {
        return model.Principal{}, false
    }
    role, ok := c.Get(ctxRole).(model.Role)
    if !ok {
        return model.Principal{}, false
    }
    return model.Principal{ID: id, Email: email, Role: role}, true
}
