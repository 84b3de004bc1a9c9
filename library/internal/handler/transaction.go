package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

// IssueBook
// @Summary  Borrow a book
// @Tags     transactions
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    loan body     model.IssueRequest true "memberId defaults to the caller"
// @Success  201  {object} model.Transaction
// @Failure  400  {object} messageResponse
// @Failure  403  {object} messageResponse
// @Failure  404  {object} messageResponse
// @Failure  409  {object} messageResponse
// @Router   /transactions [post]
func (h *Handler) IssueBook(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req model.IssueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	t, err := h.librarySvc.IssueBook(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

// ReturnBook
// @Summary  Return a borrowed book
// @Tags     transactions
// @Security BearerAuth
// @Produce  json
// @Param    id  path     int true "transaction id"
// @Success  200 {object} model.Transaction
// @Failure  403 {object} messageResponse
// @Failure  404 {object} messageResponse
// @Failure  409 {object} messageResponse
// @Router   /transactions/{id}/return [post]
func (h *Handler) ReturnBook(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	t, err := h.librarySvc.ReturnBook(c.Request().Context(), who, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

// ListTransactions
// @Summary  List loans; members only see their own
// @Tags     transactions
// @Security BearerAuth
// @Produce  json
// @Param    limit      query    int    false "page size" default(10)
// @Param    offset     query    int    false "offset"    default(0)
// @Param    searchText query    string false "substring of the book status"
// @Param    memberId   query    int    false "only loans of this member"
// @Success  200        {object} model.Page[model.Transaction]
// @Failure  400        {object} messageResponse
// @Router   /transactions [get]
func (h *Handler) ListTransactions(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	req := model.TransactionPageRequest{PageRequest: page}
	if raw := c.QueryParam("memberId"); raw != "" {
		memberID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || memberID <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "memberId is invalid")
		}
		req.MemberID = memberID
	}
	list, err := h.librarySvc.ListTransactions(c.Request().Context(), who, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetTransaction
// @Summary  Get a loan
// @Tags     transactions
// @Security BearerAuth
// @Produce  json
// @Param    id  path     int true "transaction id"
// @Success  200 {object} model.Transaction
// @Failure  403 {object} messageResponse
// @Failure  404 {object} messageResponse
// @Router   /transaction/{id} [get]
func (h *Handler) GetTransaction(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	t, err := h.librarySvc.GetTransaction(c.Request().Context(), who, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

// UpdateTransaction
// @Summary  Change the due date of a loan
// @Tags     transactions
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path     int                            true "transaction id"
// @Param    loan body     model.TransactionUpdateRequest true "new due date"
// @Success  200  {object} model.Transaction
// @Failure  400  {object} messageResponse
// @Failure  404  {object} messageResponse
// @Router   /transaction/{id} [patch]
func (h *Handler) UpdateTransaction(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	var req model.TransactionUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	t, err := h.librarySvc.UpdateTransaction(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTransaction
// @Summary  Delete a loan, giving back the copy if still issued
// @Tags     transactions
// @Security BearerAuth
// @Produce  json
// @Param    id  path     int true "transaction id"
// @Success  200 {object} model.Transaction
// @Failure  404 {object} messageResponse
// @Router   /transaction/{id} [delete]
func (h *Handler) DeleteTransaction(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	t, err := h.librarySvc.DeleteTransaction(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}
