package utils

import (
	"fmt"
	"strings"
)

const shortCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ShortCodeMinLength is the minimum width of a generated short code
const ShortCodeMinLength = 6

// EncodeShortCode maps a database-assigned numeric identifier to a base62
// short code. Codes are unique because identifiers are unique; no collision
// handling is needed. Identifiers beyond 62^6-1 simply produce longer codes.
func EncodeShortCode(id uint64) string {
	if id == 0 {
		return strings.Repeat(string(shortCodeAlphabet[0]), ShortCodeMinLength)
	}
	buf := make([]byte, 0, 16)
	for id > 0 {
		buf = append(buf, shortCodeAlphabet[id%62])
		id /= 62
	}
	for len(buf) < ShortCodeMinLength {
		buf = append(buf, shortCodeAlphabet[0])
	}
	// reverse in place, most significant symbol first
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// DecodeShortCode is the inverse of EncodeShortCode. It is not on the
// redirect path; lookups go through the short_code index instead.
func DecodeShortCode(code string) (uint64, error) {
	var n uint64
	for i := 0; i < len(code); i++ {
		c := code[i]
		var v uint64
		switch {
		case c >= '0' && c <= '9':
			v = uint64(c - '0')
		case c >= 'a' && c <= 'z':
			v = uint64(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			v = uint64(c-'A') + 36
		default:
			return 0, fmt.Errorf("invalid base62 character: %q", c)
		}
		n = n*62 + v
	}
	return n, nil
}
