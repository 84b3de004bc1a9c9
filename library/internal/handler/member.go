package handler

import (
	"net/http"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

// ListMembers
// @Summary  List members
// @Tags     members
// @Security BearerAuth
// @Produce  json
// @Param    limit      query    int    false "page size" default(10)
// @Param    offset     query    int    false "offset"    default(0)
// @Param    searchText query    string false "substring of name, phone number or email"
// @Success  200        {object} model.Page[model.Member]
// @Failure  400        {object} messageResponse
// @Failure  403        {object} messageResponse
// @Router   /members [get]
func (h *Handler) ListMembers(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	members, err := h.librarySvc.ListMembers(c.Request().Context(), page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, members)
}

// GetMember
// @Summary  Get a member
// @Tags     members
// @Security BearerAuth
// @Produce  json
// @Param    id  path     int true "member id"
// @Success  200 {object} model.Member
// @Failure  400 {object} messageResponse
// @Failure  404 {object} messageResponse
// @Router   /member/{id} [get]
func (h *Handler) GetMember(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	member, err := h.librarySvc.GetMember(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, member)
}

// UpdateMember
// @Summary  Update a member
// @Tags     members
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id     path     int                       true "member id"
// @Param    member body     model.MemberUpdateRequest true "fields to change"
// @Success  200    {object} model.Member
// @Failure  400    {object} messageResponse
// @Failure  404    {object} messageResponse
// @Failure  409    {object} messageResponse
// @Router   /member/{id} [patch]
func (h *Handler) UpdateMember(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	var req model.MemberUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	member, err := h.librarySvc.UpdateMember(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, member)
}

// DeleteMember
// @Summary  Delete a member and their loans
// @Tags     members
// @Security BearerAuth
// @Produce  json
// @Param    id  path     int true "member id"
// @Success  200 {object} messageResponse
// @Failure  404 {object} messageResponse
// @Router   /member/{id} [delete]
func (h *Handler) DeleteMember(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	if _, err := h.librarySvc.DeleteMember(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "member deleted"})
}
