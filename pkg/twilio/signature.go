package twilio

import (
	"net/url"

	"github.com/twilio/twilio-go/client"
)

// SignatureHeader carries Twilio's request signature.
const SignatureHeader = "X-Twilio-Signature"

// ValidateSignature reports whether signature matches a webhook posted to
// fullURL with params. An empty token or signature never validates. Twilio
// posts each form field once, so only the first value of a key is signed.
func ValidateSignature(authToken, fullURL string, params url.Values, signature string) bool {
	if authToken == "" || signature == "" {
		return false
	}
	flat := make(map[string]string, len(params))
	for k := range params {
		flat[k] = params.Get(k)
	}
	validator := client.NewRequestValidator(authToken)
	return validator.Validate(fullURL, flat, signature)
}
