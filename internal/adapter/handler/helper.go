package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vibecut/autoeditor/errors"
	"github.com/vibecut/autoeditor/internal/adapter/dto/common"
)

// RespondAppError maps an application error onto the standard error
// response shape. Unknown errors become a 500.
func RespondAppError(c echo.Context, err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		details := map[string]interface{}{}
		for k, v := range appErr.Details {
			details[k] = v
		}
		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Code.String(),
			Message: appErr.Message,
			Details: details,
			Code:    appErr.Code.String(),
		})
	}
	return c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Error:   "INTERNAL",
		Message: "Internal server error",
	})
}

// BindAndValidate decodes the request body and runs struct validation
func BindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidArgument("malformed request body")
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}
