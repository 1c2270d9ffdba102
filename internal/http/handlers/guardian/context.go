package guardian

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/handlers/shared"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getGuardianID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "guardian_id", "error.guardian_id_invalid", "error.guardian_id_type_invalid")
}

func currentRequestID(c *gin.Context) string {
	value, exists := c.Get("request_id")
	if !exists {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return strings.TrimSpace(requestID)
	}
	return ""
}

func parseIDParam(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(key)), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
