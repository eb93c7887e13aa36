package api

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gin-gonic/gin"
)

// newEngine builds the router shared by both services: panic recovery,
// request logging, and the health probe every deployment scrapes.
func newEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.GET("/health", handleHealth)
	return engine
}

func handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "Ok")
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("Request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
			"ip", c.ClientIP())
	}
}
