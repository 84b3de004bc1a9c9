package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const refreshCookiePrefix = "refreshToken_"

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Register
// @Summary  Register a member
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    member body     model.MemberCreateRequest true "member"
// @Success  201    {object} messageResponse
// @Failure  400    {object} messageResponse
// @Failure  403    {object} messageResponse
// @Failure  409    {object} messageResponse
// @Router   /register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.MemberCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.librarySvc.Register(c.Request().Context(), req); err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "member registered"})
}

// Login
// @Summary  Log in with email and password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    credentials body     model.LoginRequest true "credentials"
// @Success  200         {object} tokenResponse
// @Failure  400         {object} messageResponse
// @Failure  401         {object} messageResponse
// @Router   /login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	pair, err := h.librarySvc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "user not found")
		}
		return h.httpError(err)
	}
	c.SetCookie(h.refreshCookie(pair.MemberID, pair.RefreshToken))
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: pair.AccessToken})
}

// Logout
// @Summary  Revoke the refresh token
// @Tags     auth
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} messageResponse
// @Failure  401 {object} messageResponse
// @Router   /logout [post]
func (h *Handler) Logout(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.librarySvc.Logout(c.Request().Context(), id.UserID); err != nil {
		return h.httpError(err)
	}
	cookie := h.refreshCookie(id.UserID, "")
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Refresh
// @Summary  Rotate the token pair using the refresh cookie of the caller
// @Tags     auth
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} tokenResponse
// @Failure  401 {object} messageResponse
// @Failure  403 {object} messageResponse
// @Router   /refresh [post]
func (h *Handler) Refresh(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	cookie, err := c.Cookie(refreshCookieName(id.UserID))
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no refresh token")
	}

	pair, err := h.librarySvc.Refresh(c.Request().Context(), id.UserID, cookie.Value)
	if err != nil {
		if errors.Is(err, errs.ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, "invalid refresh token")
		}
		return h.httpError(err)
	}
	c.SetCookie(h.refreshCookie(pair.MemberID, pair.RefreshToken))
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: pair.AccessToken})
}

func refreshCookieName(memberID int64) string {
	return refreshCookiePrefix + strconv.FormatInt(memberID, 10)
}

func (h *Handler) refreshCookie(memberID int64, token string) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName(memberID),
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
