// Package serial issues certificate serial numbers and verification codes.
//
// Serial numbers are human readable and unique with overwhelming probability;
// verification codes are unguessable secrets used for public certificate
// lookup. Both draw from crypto/rand.
package serial

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// SerialPrefix is the leading tag of every certificate serial number.
const SerialPrefix = "CERT"

// serialAlphabet is uppercase base36, matching the printed serial format.
const serialAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const serialSuffixLen = 6

// verificationCodeBytes yields 32 hex characters.
const verificationCodeBytes = 16

// NewSerial returns a serial number of the form CERT-YYYYMMDD-XXXXXX where the
// suffix is drawn from crypto/rand over the uppercase base36 alphabet.
func NewSerial() string {
	return NewSerialAt(time.Now())
}

// NewSerialAt returns a serial number stamped with the given date.
func NewSerialAt(t time.Time) string {
	suffix := make([]byte, serialSuffixLen)
	raw := make([]byte, serialSuffixLen)
	mustRead(raw)
	for i, b := range raw {
		suffix[i] = serialAlphabet[int(b)%len(serialAlphabet)]
	}
	return fmt.Sprintf("%s-%s-%s", SerialPrefix, t.Format("20060102"), suffix)
}

// NewVerificationCode returns a 32 character hex token for public certificate
// lookup. The code guards access to certificate data, so it must not be
// derivable from the certificate id or issue time.
func NewVerificationCode() string {
	raw := make([]byte, verificationCodeBytes)
	mustRead(raw)
	return hex.EncodeToString(raw)
}

func mustRead(p []byte) {
	if _, err := rand.Read(p); err != nil {
		// crypto/rand failure means the platform RNG is broken; there is no
		// safe fallback for an auth-adjacent secret.
		panic(fmt.Sprintf("serial: crypto/rand unavailable: %v", err))
	}
}
