package public

import (
	handlershared "github.com/phimart/phimart/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func isStaff(c *gin.Context) bool {
	return handlershared.GetContextBool(c, "is_staff")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
