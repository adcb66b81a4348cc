package sessions

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// normalize lowercases and collapses all whitespace runs to single spaces so
// that trivial re-delivery differences (added line breaks, padding) still
// produce the same fingerprint.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Fingerprint derives the durable dedup key for an inbound email from its
// normalized sender, subject, and body. Two deliveries of the same content
// always produce the same fingerprint across restarts and processes.
func Fingerprint(senderEmail, subject, body string) string {
	h := sha256.New()
	h.Write([]byte(normalize(senderEmail)))
	h.Write([]byte{'|'})
	h.Write([]byte(normalize(subject)))
	h.Write([]byte{'|'})
	h.Write([]byte(normalize(body)))
	return hex.EncodeToString(h.Sum(nil))
}
