package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/aswathiir/worksyncpluspro/internal/services"
	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"message":   "WorkSync is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// DatabaseHealthCheck pings the store at the driver level, outside the ORM
// connection pool.
func DatabaseHealthCheck(c *gin.Context) {
	if err := services.PingDatabase(os.Getenv("DATABASE_URL"), 10*time.Second); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unreachable",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
