package httpx

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
)

// RequestLogger — access-лог запросов к корзине; служебные /metrics и /ping пропускаются.
// request_id и trace id добавляет сам логгер из контекста.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		switch path {
		case "/metrics", "/ping":
			return
		case "":
			path = c.Request.URL.Path
		}

		status := c.Writer.Status()
		logf := log.Infof
		if status >= 500 {
			logf = log.Warnf
		}
		logf(
			c.Request.Context(),
			"request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			path,
			status,
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
