package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/zen-task-api/internal/errors"
)

const contextKeyTaskID = "task_id"

// RequireTaskID validates the :id path parameter. Ownership is checked by
// the task service, which reports foreign tasks as missing.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || taskID == 0 {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		c.Set(contextKeyTaskID, taskID)
		c.Next()
	}
}

// GetTaskID retrieves the task ID parsed by RequireTaskID
func GetTaskID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(contextKeyTaskID)
	if !exists {
		return 0, false
	}
	taskID, ok := v.(uint64)
	return taskID, ok
}
