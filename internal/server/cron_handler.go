package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"priceping/internal/track"
)

// liveness answers the companion GET without doing any work.
func (s *Server) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Price check endpoint is working. Use POST to trigger.",
	})
}

// trigger runs one reconciliation pass. It is authorized by the shared
// cron secret before any product is touched.
func (s *Server) trigger(c *gin.Context) {
	if s.CronSecret == "" || bearerToken(c) != s.CronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if s.Guard != nil {
		release, err := s.Guard.Acquire(c.Request.Context())
		if errors.Is(err, track.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "a price check is already running"})
			return
		}
		defer release()
	}

	report, err := s.Reconciler.Run(c.Request.Context())
	if err != nil {
		log.Printf("[server] reconciliation run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "price check failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Price check completed",
		"result":  report,
	})
}
