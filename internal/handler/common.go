package handler

import (
	"strconv"

	"SkillSwap/internal/middleware"

	"github.com/gin-gonic/gin"
)

func userIDFromCtx(c *gin.Context) uint64 {
	v, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
