package util

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the JSON request body into T. An empty body decodes to
// the zero value of T.
func BindJSON[T any](c *gin.Context) (T, error) {
	var params T

	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return params, nil
	}

	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		return params, err
	}

	return params, nil
}
