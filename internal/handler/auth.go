package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-market/internal/config"
	"github.com/iliyamo/online-market/internal/middleware"
	"github.com/iliyamo/online-market/internal/model"
	"github.com/iliyamo/online-market/internal/repository"
	"github.com/iliyamo/online-market/internal/utils"
)

// refreshCookie is the cookie carrying the refresh token.  It is HttpOnly
// and scoped to the refresh path on login; a rotated cookie widens to "/"
// with SameSite=Strict, matching how logout clears it.
const refreshCookie = "refresh_token"

// rotateWindow is the sliding-window threshold: a refresh call rotates the
// refresh token only when less than this much lifetime remains.
const rotateWindow = 24 * time.Hour

// AuthHandler bundles dependencies for the user/auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // buyer | seller | admin, defaults to buyer
}

type userResp struct {
	ID       uint64     `json:"id"`
	Email    string     `json:"email"`
	IsActive bool       `json:"is_active"`
	Role     model.Role `json:"role"`
}

type tokenPairResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type accessResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a user.  The role is validated against the closed enum at
// this boundary; anything outside {buyer, seller, admin} is a 400.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be buyer, seller or admin"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, userResp{ID: uid, Email: req.Email, IsActive: true, Role: role})
}

// Login verifies form credentials against active users and returns an
// access/refresh token pair.  The refresh token is additionally set as an
// HttpOnly cookie scoped to the refresh endpoint.
func (h *AuthHandler) Login(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("username")))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email or password"})
	}

	p := model.Principal{ID: u.ID, Email: u.Email, Role: u.Role}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, p, h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    refresh.Token,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/users/refresh",
		MaxAge:   h.Cfg.RefreshTTLDays * 24 * 60 * 60,
	})

	return c.JSON(http.StatusOK, tokenPairResp{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		TokenType:    "bearer",
	})
}

// Refresh exchanges a valid refresh cookie for a new access token.  The
// decision sequence mirrors the token states: no cookie, bad signature or
// structure, expired, wrong kind, valid.  Rotation is a sliding window:
// only when less than rotateWindow of lifetime remains is a fresh refresh
// token minted and the cookie overwritten; the rotated token travels solely
// in the cookie, never in the JSON body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing refresh token"})
	}

	claims, err := utils.ParseToken(h.Cfg.JWTSecret, cookie.Value)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token expired"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if claims.Kind != utils.KindRefresh {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "wrong token type"})
	}

	p := model.Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	if time.Until(claims.Exp) < rotateWindow {
		rotated, err := utils.NewRefreshToken(h.Cfg.JWTSecret, p, h.Cfg.RefreshTTLDays)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
		}
		c.SetCookie(&http.Cookie{
			Name:     refreshCookie,
			Value:    rotated.Token,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
			MaxAge:   h.Cfg.RefreshTTLDays * 24 * 60 * 60,
		})
	}

	return c.JSON(http.StatusOK, accessResp{AccessToken: access.Token, TokenType: "bearer"})
}

// Logout clears the refresh cookie.  Tokens are stateless, so nothing is
// revoked server-side; an already-issued refresh token stays valid until its
// natural expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
	return c.JSON(http.StatusOK, echo.Map{"detail": "Logged out"})
}

// Me returns the authenticated principal (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": p.ID,
		"email":   p.Email,
		"role":    p.Role,
	})
}
