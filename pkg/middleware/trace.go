package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const traceIDHeader = "X-Trace-ID"
const requestIDHeader = "X-Request-ID"

// TraceMiddleware adds trace ID and request ID to context. Telephony webhooks
// also get their CallSid in context so logs and spans can be joined per call.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get or generate trace ID
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		requestID := uuid.NewString()

		c.Set("trace_id", traceID)
		c.Set("request_id", requestID)

		if isForm(c) {
			if sid := c.PostForm("CallSid"); sid != "" {
				c.Set("call_sid", sid)
			}
		}

		c.Header(traceIDHeader, traceID)
		c.Header(requestIDHeader, requestID)

		c.Next()
	}
}

func isForm(c *gin.Context) bool {
	return c.Request.Method == "POST" && c.ContentType() == "application/x-www-form-urlencoded"
}
