package helper

import (
	"net/http"

	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

const (
	MessageInvalidID   = "Invalid ID"
	MessageInvalidBody = "Invalid request body"
	MessageNotFound    = "Todo not found"
	MessageInternal    = "Something went wrong"
)

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.ErrorResponse{Error: message})
}

// SendValidationError reports the first failed rule of err.
func SendValidationError(c *gin.Context, err error) {
	message := MessageInvalidBody

	if messages := validation.FormatValidationErrors(err); len(messages) > 0 {
		message = messages[0]
	}

	SendError(c, http.StatusBadRequest, message)
}

func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFoundError(c *gin.Context) {
	SendError(c, http.StatusNotFound, MessageNotFound)
}

func SendInternalError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, MessageInternal)
}
