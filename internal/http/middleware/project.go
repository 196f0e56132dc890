package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
)

const projectIDKey = "project_id"

// ProjectScope validates the :project_id path parameter and makes it
// available to handlers and logs.
func ProjectScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
		if err != nil || projectID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}

		c.Set(projectIDKey, projectID)
		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{ProjectID: &projectID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ProjectID returns the id stored by ProjectScope.
func ProjectID(c *gin.Context) int64 {
	return c.GetInt64(projectIDKey)
}
