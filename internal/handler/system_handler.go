package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck 以只读方式打开汇总数据库，供外部定时器与监控确认服务可用。
func (a *API) HealthCheck(c *gin.Context) {
	if a.summaries == nil {
		respondError(c, http.StatusInternalServerError, "summary repository unavailable")
		return
	}

	if err := a.summaries.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "summary database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
	})
}
