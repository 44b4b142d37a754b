package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID reads a numeric path parameter, responding 400 on garbage.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
