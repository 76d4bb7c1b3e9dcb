package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UintParam reads a positive integer path parameter.
// On failure it writes a 400 response and returns false.
func UintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
