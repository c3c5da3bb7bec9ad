package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/services"
	"github.com/rs/zerolog/log"
)

// HeaderPendingBookings carries a provider's count of bookings awaiting a decision
const HeaderPendingBookings = "X-Pending-Bookings"

// PendingBookings adds the pending booking count to every response sent to a provider.
// The count is taken when the request starts.
func PendingBookings() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor.IsProvider() {
			count, err := services.NewBookingService(config.GetDB()).PendingBookingCount(c.Request.Context(), actor)
			if err != nil {
				log.Warn().Err(err).Uint("user_id", actor.ID).Msg("Failed to count pending bookings")
			} else {
				c.Header(HeaderPendingBookings, strconv.FormatInt(count, 10))
			}
		}
		c.Next()
	}
}
