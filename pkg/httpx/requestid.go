package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gunvolt24/rocketshoes_cart/pkg/ctxmeta"
)

// HeaderRequestID — сквозной id: приходит от клиента, уходит в запросы к складу и в ответ.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen — длиннее не доверяем клиенту и генерируем свой.
const maxRequestIDLen = 128

// RequestIDMiddleware — кладёт request_id и источник "http" в контекст запроса к корзине.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := ctxmeta.WithSource(c.Request.Context(), ctxmeta.SourceHTTP)
		c.Request = c.Request.WithContext(ctxmeta.WithRequestID(ctx, requestID))

		c.Next()
	}
}
