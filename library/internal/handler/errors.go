package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type messageResponse struct {
	Message string `json:"message"`
}

// httpError maps service errors onto status codes. Unknown errors are logged
// and hidden from the client.
func (h *Handler) httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnauthenticated), errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, errs.ErrForbidden.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrNoCopiesAvailable),
		errors.Is(err, errs.ErrAlreadyReturned):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		h.log.Error("internal", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

func parsePage(c echo.Context) (model.PageRequest, error) {
	page := model.PageRequest{
		Limit:  defaultLimit,
		Search: strings.TrimSpace(c.QueryParam("searchText")),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return model.PageRequest{}, echo.NewHTTPError(http.StatusBadRequest, "limit is invalid")
		}
		page.Limit = min(limit, maxLimit)
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return model.PageRequest{}, echo.NewHTTPError(http.StatusBadRequest, "offset is invalid")
		}
		page.Offset = offset
	}
	return page, nil
}

func caller(c echo.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, errs.ErrUnauthenticated.Error())
	}
	return id, nil
}
