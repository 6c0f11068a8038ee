package public

import (
	"strconv"
	"strings"

	handlershared "github.com/foody-next/internal/http/handlers/shared"
	"github.com/foody-next/internal/http/response"
	"github.com/foody-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOffers 公共优惠列表
func (h *Handler) ListOffers(c *gin.Context) {
	var restaurantID uint
	if raw := strings.TrimSpace(c.Query("restaurant_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			handlershared.RespondError(c, response.CodeBadRequest, "invalid restaurant_id", nil)
			return
		}
		restaurantID = uint(parsed)
	}
	views, err := h.OfferService.ListPublic(c.Request.Context(), service.PublicFeedInput{
		RestaurantID: restaurantID,
		Limit:        handlershared.QueryInt(c, "limit"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, views)
}
