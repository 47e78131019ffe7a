package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StatusOf maps an application error to its HTTP status.
func StatusOf(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrNotAwaitingAssignment),
		errors.Is(err, commands.ErrOrderAlreadyExists),
		errors.Is(err, driver.ErrDriverHasActiveOrders),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, kernel.ErrInvalidCoordinate),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	code := StatusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = http.StatusText(code)
	}
	return c.JSON(code, servers.Error{Code: int32(code), Message: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: msg})
}

// errorHandler renders errors that escape a handler, such as the generated
// wrapper's parameter binding failures, in the same body shape as respondError.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := StatusOf(err)
	msg := http.StatusText(code)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
	} else if code != http.StatusInternalServerError {
		msg = err.Error()
	}
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, servers.Error{Code: int32(code), Message: msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
