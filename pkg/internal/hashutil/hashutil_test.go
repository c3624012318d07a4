package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA1Bytes(t *testing.T) {
	// Known SHA-1 of "hello world".
	assert.Equal(t, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed", SHA1Bytes([]byte("hello world")))
}

func TestFingerprintIgnoresWhitespace(t *testing.T) {
	plain := Fingerprint([]byte("helloworld"))
	spaced := Fingerprint([]byte("hello world\r\n\t"))
	assert.Equal(t, plain, spaced)
}

func TestFingerprintDiffersForDifferentContent(t *testing.T) {
	assert.NotEqual(t, Fingerprint([]byte("alpha")), Fingerprint([]byte("beta")))
}

func TestFingerprintDeterministic(t *testing.T) {
	data := []byte{0x50, 0x4b, 0x03, 0x04, 0x01, 0x02, 0x03}
	assert.Equal(t, Fingerprint(data), Fingerprint(data))
	assert.NotZero(t, Fingerprint(data))
}

func TestMurmur2EmptyInput(t *testing.T) {
	assert.NotPanics(t, func() { murmur2(nil, 1) })
}
