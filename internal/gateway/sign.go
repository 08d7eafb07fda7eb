package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// Sign computes the hex-encoded HMAC-SHA512 over the "#"-joined fields.
// Every provider signs the same way; only the field order differs, so each
// adapter passes its own ordered list. The gateway recomputes the exact same
// concatenation on its side.
func Sign(secret string, fields ...string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(strings.Join(fields, "#")))
	return hex.EncodeToString(mac.Sum(nil))
}
