package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/utils"
)

// SafeFields converts a webhook payload into zap fields, masking anything
// that carries a phone number.
func SafeFields(fields map[string]string) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if isPhoneField(k) || utils.ValidateE164(v) {
			zapFields = append(zapFields, MaskPhone(k, v))
			continue
		}
		zapFields = append(zapFields, zap.String(k, v))
	}
	return zapFields
}

func isPhoneField(key string) bool {
	k := strings.ToLower(key)
	return k == "from" || k == "to" || k == "caller" || k == "called" ||
		strings.HasSuffix(k, "number") || strings.HasSuffix(k, "phone")
}
