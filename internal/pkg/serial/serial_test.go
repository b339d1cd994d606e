package serial

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serialRe = regexp.MustCompile(`^CERT-\d{8}-[A-Z0-9]{6}$`)

func TestNewSerialFormat(t *testing.T) {
	s := NewSerialAt(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
	assert.Regexp(t, serialRe, s)
	assert.Contains(t, s, "-20250314-")
}

func TestNewSerialNoCollisions(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		s := NewSerial()
		_, dup := seen[s]
		require.False(t, dup, "duplicate serial after %d draws: %s", i, s)
		seen[s] = struct{}{}
	}
}

func TestNewVerificationCode(t *testing.T) {
	code := NewVerificationCode()
	assert.Len(t, code, 32)
	assert.Regexp(t, `^[0-9a-f]+$`, code)

	// Codes must differ between draws.
	assert.NotEqual(t, code, NewVerificationCode())
}
