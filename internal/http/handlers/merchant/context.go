package merchant

import (
	handlershared "github.com/foody-next/internal/http/handlers/shared"
	"github.com/foody-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getRestaurantID(c *gin.Context) (uint, bool) {
	return handlershared.GetRestaurantID(c)
}

func parseOfferID(c *gin.Context) (uint, bool) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid offer id", nil)
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}
