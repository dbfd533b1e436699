package builtins

import (
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/blake2b"
)

func TestGetHasher(t *testing.T) {
	tests := []struct {
		algo     string
		expected string
	}{
		{"md5", "900150983CD24FB0D6963F7D28E17F72"},
		{"sha1", "A9993E364706816ABA3E25717850C26C9CD0D89D"},
		{"sha256", "BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD"},
		{"SHA256", "BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD"},
		{"ripemd160", "8EB208F7E05D987A9B044A8E98C6B087F15A0BFC"},
	}

	for _, tt := range tests {
		h, ok := getHasher(tt.algo)
		if !ok {
			t.Errorf("getHasher(%q) not found", tt.algo)
			continue
		}
		h.Write([]byte("abc"))
		got := strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
		if got != tt.expected {
			t.Errorf("%s(abc) = %s, expected %s", tt.algo, got, tt.expected)
		}
	}
}

func TestGetHasherBlake2b(t *testing.T) {
	h, ok := getHasher("blake2b")
	if !ok {
		t.Fatal("blake2b not found")
	}
	h.Write([]byte("abc"))
	sum := blake2b.Sum256([]byte("abc"))
	if got, expected := hex.EncodeToString(h.Sum(nil)), hex.EncodeToString(sum[:]); got != expected {
		t.Errorf("blake2b(abc) = %s, expected %s", got, expected)
	}
}

func TestGetHasherUnknown(t *testing.T) {
	if _, ok := getHasher("crc32"); ok {
		t.Error("crc32 should not be a known algorithm")
	}
}
