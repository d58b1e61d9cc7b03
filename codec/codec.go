// Package codec implements the admin token wire format: a base64 envelope
// around a colon-delimited payload. Two historical payload shapes exist and
// both must keep decoding until already-issued tokens expire naturally.
package codec

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

const (
	// payloadTag is the leading marker every valid payload carries.
	payloadTag = "admin"

	// LegacyValidity is the validity window the server grants legacy-format
	// tokens. The window is not embedded in the token; this constant mirrors
	// server behavior and will silently disagree with the server if its
	// grant window ever changes.
	LegacyValidity = 7 * 24 * time.Hour

	legacyParts   = 3
	enhancedParts = 5
)

// Decode reverses the wire encoding into a Credential. It never fails:
// input that is not valid base64, or whose payload matches neither
// historical shape, yields a Malformed credential with no subject or expiry
// populated.
func Decode(raw string) core.Credential {
	malformed := core.Credential{Raw: raw, Format: core.FormatMalformed}

	payload, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return malformed
	}

	parts := strings.Split(string(payload), ":")
	if len(parts) != legacyParts && len(parts) != enhancedParts {
		return malformed
	}
	if parts[0] != payloadTag {
		return malformed
	}

	subject, err := strconv.Atoi(parts[1])
	if err != nil {
		return malformed
	}
	issuedMillis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return malformed
	}
	issuedAt := time.UnixMilli(issuedMillis)

	switch len(parts) {
	case legacyParts:
		return core.Credential{
			Raw:       raw,
			Format:    core.FormatLegacy,
			SubjectID: subject,
			IssuedAt:  issuedAt,
			ExpiresAt: issuedAt.Add(LegacyValidity),
		}

	case enhancedParts:
		expiresMillis, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return malformed
		}
		return core.Credential{
			Raw:       raw,
			Format:    core.FormatEnhanced,
			SubjectID: subject,
			IssuedAt:  issuedAt,
			ExpiresAt: time.UnixMilli(expiresMillis),
			Signature: parts[4],
		}

	default:
		return malformed
	}
}

// EncodeLegacy produces a 3-part legacy token. Only the issuance timestamp
// is embedded; the validity window is implicit.
func EncodeLegacy(subjectID int, issuedAt time.Time) string {
	payload := fmt.Sprintf("%s:%d:%d", payloadTag, subjectID, issuedAt.UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// EncodeEnhanced produces a 5-part enhanced token with an explicit expiry
// and an opaque signature.
func EncodeEnhanced(subjectID int, issuedAt, expiresAt time.Time, signature string) string {
	payload := fmt.Sprintf("%s:%d:%d:%d:%s",
		payloadTag, subjectID, issuedAt.UnixMilli(), expiresAt.UnixMilli(), signature)
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// IsExpired reports whether the credential is past its expiry at the given
// instant. A Malformed credential is always expired.
func IsExpired(c core.Credential, now time.Time) bool {
	if c.Format == core.FormatMalformed {
		return true
	}
	return now.After(c.ExpiresAt)
}

// Remaining returns the time left before expiry, floored at zero.
func Remaining(c core.Credential, now time.Time) time.Duration {
	if c.Format == core.FormatMalformed {
		return 0
	}
	left := c.ExpiresAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
