package response

import (
	"net/http"
	"strconv"

	custom_error "assetledger/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Error aborts with the status matching err and the usual error body.
func Error(c *gin.Context, message string, err error) {
	c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": message, "details": err.Error()})
}

// ParamID reads a positive integer path parameter. On failure it has already
// answered with 400.
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ", value must be a positive integer"})
		return 0, false
	}
	return id, true
}
