package middleware

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/apikey"
	"github.com/troikatech/kisan-voicebot/pkg/errors"
)

const APIKeyHeader = "X-API-Key"

// APIKey requires a live key from issuer in the X-API-Key header. When
// required is false the header is not checked at all.
func APIKey(issuer *apikey.Issuer, required bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !required {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if _, err := issuer.Validate(c.Request.Context(), key); err != nil {
			switch {
			case stderrors.Is(err, apikey.ErrMissingKey):
				errors.Unauthorized(c, "X-API-Key header required")
			case stderrors.Is(err, apikey.ErrInvalidKey):
				errors.Unauthorized(c, "invalid or expired API key")
			default:
				errors.InternalError(c, err, logger)
			}
			return
		}

		c.Next()
	}
}
