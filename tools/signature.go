package tools

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const SIGNATURE_HEADER = "X-Hub-Signature-256"

// VerifySignature checks header (sha256=<hex>) against the HMAC-SHA256 of
// rawBody keyed with secret. The second return value says why a check failed.
func VerifySignature(secret string, header string, rawBody []byte) (bool, string) {
	if secret == "" {
		return false, "missing webhook secret"
	}
	sig := strings.TrimSpace(header)
	if sig == "" {
		return false, "missing " + SIGNATURE_HEADER
	}
	if !strings.HasPrefix(sig, "sha256=") {
		return false, "invalid " + SIGNATURE_HEADER + " format"
	}

	provided, err := hex.DecodeString(strings.TrimPrefix(sig, "sha256="))
	if err != nil {
		return false, "invalid signature hex"
	}

	if !hmac.Equal(provided, Sign(secret, rawBody)) {
		return false, "signature mismatch"
	}
	return true, ""
}

// Sign returns the raw HMAC-SHA256 of body.
func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return mac.Sum(nil)
}
