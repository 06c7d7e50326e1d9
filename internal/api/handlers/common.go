package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code    utils.Code        `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
			Fields:  utils.FieldErrors(err),
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c *gin.Context, op, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(c, utils.Invalid(op, "invalid query parameter", map[string]string{
			name: "must be a non-negative integer",
		}))
		return 0, false
	}
	return n, true
}
