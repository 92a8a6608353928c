package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "teamhub.backend/internal/domain/errors"
)

// Body is the envelope every JSON response is wrapped in.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}, message ...string) {
	body := Body{Success: true, Data: data}
	if len(message) > 0 {
		body.Message = message[0]
	}
	c.JSON(status, body)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		// Default to Internal Server Error if not an AppError
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, Body{
		Success: false,
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	})
}

// Abort sends an error response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
