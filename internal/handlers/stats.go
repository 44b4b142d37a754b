package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"carpool-backend/internal/core"
	"carpool-backend/internal/services"
)

// GetDriverStats returns the calling driver's dashboard aggregates.
// Served from the short-TTL cache when warm; always recomputed from the
// repository on a miss.
func GetDriverStats(stats *core.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		ctx := c.Request.Context()

		var cached core.DriverStats
		if hit, err := services.GetCachedStats(ctx, "driver", userId, &cached); err == nil && hit {
			c.JSON(200, cached)
			return
		}

		result, err := stats.Driver(ctx, userId)
		if err != nil {
			respondError(c, err)
			return
		}

		if err := services.CacheStats(ctx, "driver", userId, result); err != nil {
			log.Printf("Failed to cache driver stats: %v", err)
		}
		c.JSON(200, result)
	}
}

// GetPassengerStats returns the calling passenger's dashboard aggregates.
func GetPassengerStats(stats *core.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		ctx := c.Request.Context()

		var cached core.PassengerStats
		if hit, err := services.GetCachedStats(ctx, "passenger", userId, &cached); err == nil && hit {
			c.JSON(200, cached)
			return
		}

		result, err := stats.Passenger(ctx, userId)
		if err != nil {
			respondError(c, err)
			return
		}

		if err := services.CacheStats(ctx, "passenger", userId, result); err != nil {
			log.Printf("Failed to cache passenger stats: %v", err)
		}
		c.JSON(200, result)
	}
}

// GetAdminStats returns platform-wide counts. Admin only.
func GetAdminStats(stats *core.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := stats.Admin(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, result)
	}
}
