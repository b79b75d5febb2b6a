package shared

import (
	"github.com/phimart/phimart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUint 从上下文读取 uint 值并统一处理错误响应。
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid "+key, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid "+key, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "unexpected "+key+" type", nil)
		return 0, false
	}
}

// GetContextBool 从上下文读取 bool 值，缺失时返回 false。
func GetContextBool(c *gin.Context, key string) bool {
	value, exists := c.Get(key)
	if !exists {
		return false
	}
	b, ok := value.(bool)
	return ok && b
}
