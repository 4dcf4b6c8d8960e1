package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dinetrack/internal/domain"
	"dinetrack/internal/service/track"
)

func submitHandler(orders OrderSubmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderTable := c.Query("order_table")
		hotelID := c.Query("hotel")

		history, err := orders.Submit(c.Request.Context(), orderTable, hotelID)
		if err != nil {
			var subErr *domain.SubmissionError
			switch {
			case errors.Is(err, domain.ErrMissingRouteContext):
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			case errors.Is(err, domain.ErrSubmissionInProgress):
				c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
			case errors.As(err, &subErr):
				c.JSON(http.StatusBadGateway, gin.H{"message": subErr.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"orders": history})
	}
}

func historyHandler(tracker OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := tracker.History(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": history})
	}
}

func elapsedHandler(tracker OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		seconds, running, err := tracker.Elapsed(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"elapsedSeconds": seconds,
			"display":        track.FormatSeconds(seconds),
			"running":        running,
		})
	}
}

func deviceHandler(identity IdentityEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identity.Ensure(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deviceId": id})
	}
}
