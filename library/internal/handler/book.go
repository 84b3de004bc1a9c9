package handler

import (
	"net/http"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

type bookCreatedResponse struct {
	Message string     `json:"message"`
	Result  model.Book `json:"result"`
}

// ListBooks
// @Summary  List books
// @Tags     books
// @Security BearerAuth
// @Produce  json
// @Param    limit      query    int    false "page size" default(10)
// @Param    offset     query    int    false "offset"    default(0)
// @Param    searchText query    string false "substring of title, author, publisher, genre or isbn"
// @Success  200        {object} model.Page[model.Book]
// @Failure  400        {object} messageResponse
// @Router   /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	books, err := h.librarySvc.ListBooks(c.Request().Context(), page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook
// @Summary  Get a book
// @Tags     books
// @Security BearerAuth
// @Produce  json
// @Param    id  query    int true "book id"
// @Success  200 {object} model.Book
// @Failure  400 {object} messageResponse
// @Failure  404 {object} messageResponse
// @Router   /book [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := parseID(c.QueryParam("id"))
	if err != nil {
		return err
	}
	book, err := h.librarySvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook
// @Summary  Add a book
// @Tags     books
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    book body     model.BookCreateRequest true "book"
// @Success  201  {object} bookCreatedResponse
// @Failure  400  {object} messageResponse
// @Failure  403  {object} messageResponse
// @Failure  409  {object} messageResponse
// @Router   /book [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	book, err := h.librarySvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, bookCreatedResponse{Message: "book created", Result: book})
}

// UpdateBook
// @Summary  Update a book
// @Tags     books
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   query    int                     true "book id"
// @Param    book body     model.BookUpdateRequest true "fields to change"
// @Success  200  {object} model.Book
// @Failure  400  {object} messageResponse
// @Failure  404  {object} messageResponse
// @Router   /book [patch]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := parseID(c.QueryParam("id"))
	if err != nil {
		return err
	}
	var req model.BookUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	book, err := h.librarySvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook
// @Summary  Delete a book
// @Tags     books
// @Security BearerAuth
// @Produce  json
// @Param    id  query    int true "book id"
// @Success  200 {object} model.Book
// @Failure  404 {object} messageResponse
// @Router   /book [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := parseID(c.QueryParam("id"))
	if err != nil {
		return err
	}
	book, err := h.librarySvc.DeleteBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}
