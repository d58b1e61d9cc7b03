package codec

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

func TestDecodeEnhanced(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("admin:7:1000000:1700000:sig123"))

	cred := Decode(raw)

	require.Equal(t, core.FormatEnhanced, cred.Format)
	assert.Equal(t, 7, cred.SubjectID)
	assert.Equal(t, time.UnixMilli(1000000), cred.IssuedAt)
	assert.Equal(t, time.UnixMilli(1700000), cred.ExpiresAt)
	assert.Equal(t, "sig123", cred.Signature)
	assert.Equal(t, raw, cred.Raw)

	assert.False(t, IsExpired(cred, time.UnixMilli(1600000)))
	assert.True(t, IsExpired(cred, time.UnixMilli(1800000)))
}

func TestDecodeLegacy(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("admin:3:1000000"))

	cred := Decode(raw)

	require.Equal(t, core.FormatLegacy, cred.Format)
	assert.Equal(t, 3, cred.SubjectID)
	assert.Equal(t, time.UnixMilli(1000000), cred.IssuedAt)
	assert.Equal(t, time.UnixMilli(1000000+604800000), cred.ExpiresAt)
	assert.Empty(t, cred.Signature)
}

func TestDecodeMalformed(t *testing.T) {
	encode := func(payload string) string {
		return base64.StdEncoding.EncodeToString([]byte(payload))
	}

	cases := []struct {
		name string
		raw  string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"empty", ""},
		{"wrong tag", encode("user:3:1000000")},
		{"two parts", encode("admin:3")},
		{"four parts", encode("admin:3:1000000:1700000")},
		{"six parts", encode("admin:3:1:2:sig:extra")},
		{"non-numeric subject", encode("admin:abc:1000000")},
		{"non-numeric issued", encode("admin:3:abc")},
		{"non-numeric expiry", encode("admin:3:1000000:abc:sig")},
		{"plain garbage", encode("hello world")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cred := Decode(tc.raw)
			assert.Equal(t, core.FormatMalformed, cred.Format)
			assert.Zero(t, cred.SubjectID)
			assert.True(t, cred.IssuedAt.IsZero())
			assert.True(t, cred.ExpiresAt.IsZero())
			assert.Equal(t, tc.raw, cred.Raw)
		})
	}
}

func TestEnhancedRoundTrip(t *testing.T) {
	issued := time.UnixMilli(1712000000000)
	expires := issued.Add(48 * time.Hour)

	raw := EncodeEnhanced(42, issued, expires, "deadbeef")
	cred := Decode(raw)

	require.Equal(t, core.FormatEnhanced, cred.Format)
	assert.Equal(t, 42, cred.SubjectID)
	assert.Equal(t, issued, cred.IssuedAt)
	assert.Equal(t, expires, cred.ExpiresAt)
	assert.Equal(t, "deadbeef", cred.Signature)
}

func TestLegacyRoundTrip(t *testing.T) {
	issued := time.UnixMilli(1712000000000)

	cred := Decode(EncodeLegacy(9, issued))

	require.Equal(t, core.FormatLegacy, cred.Format)
	assert.Equal(t, 9, cred.SubjectID)
	assert.Equal(t, issued.Add(LegacyValidity), cred.ExpiresAt)
}

func TestIsExpiredMalformedAlwaysExpired(t *testing.T) {
	cred := Decode("garbage")
	assert.True(t, IsExpired(cred, time.UnixMilli(0)))
	assert.Zero(t, Remaining(cred, time.UnixMilli(0)))
}

func TestIsExpiredMonotonic(t *testing.T) {
	cred := Decode(EncodeEnhanced(1, time.UnixMilli(0), time.UnixMilli(1000000), "s"))

	expiredOnce := false
	for ms := int64(0); ms <= 2000000; ms += 100000 {
		expired := IsExpired(cred, time.UnixMilli(ms))
		if expiredOnce {
			assert.True(t, expired, "expiry must not flip back at t=%d", ms)
		}
		if expired {
			expiredOnce = true
		}
	}
	assert.True(t, expiredOnce)
}

func TestRemaining(t *testing.T) {
	cred := Decode(EncodeEnhanced(1, time.UnixMilli(0), time.UnixMilli(1000000), "s"))

	assert.Equal(t, 400*time.Second, Remaining(cred, time.UnixMilli(600000)))
	assert.Zero(t, Remaining(cred, time.UnixMilli(1000000)))
	assert.Zero(t, Remaining(cred, time.UnixMilli(2000000)))
}
