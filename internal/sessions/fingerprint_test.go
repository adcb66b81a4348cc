package sessions_test

import (
	"testing"

	"github.com/inboundflow/courier/internal/sessions"
)

func TestFingerprintStable(t *testing.T) {
	a := sessions.Fingerprint("guest@example.com", "Booking inquiry", "I would love to join.")
	b := sessions.Fingerprint("guest@example.com", "Booking inquiry", "I would love to join.")
	if a != b {
		t.Errorf("same content produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length: got %d, want 64", len(a))
	}
}

func TestFingerprintNormalizesCaseAndWhitespace(t *testing.T) {
	a := sessions.Fingerprint("Guest@Example.com", "Booking   inquiry", "I would\nlove to join.")
	b := sessions.Fingerprint("guest@example.com", "booking inquiry", "i would love to join.")
	if a != b {
		t.Error("normalization-equivalent content should produce the same fingerprint")
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	a := sessions.Fingerprint("guest@example.com", "Booking inquiry", "First message.")
	b := sessions.Fingerprint("guest@example.com", "Booking inquiry", "Second message.")
	if a == b {
		t.Error("different bodies should produce different fingerprints")
	}

	c := sessions.Fingerprint("other@example.com", "Booking inquiry", "First message.")
	if a == c {
		t.Error("different senders should produce different fingerprints")
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	// the separator keeps field content from bleeding across boundaries
	a := sessions.Fingerprint("a@example.com", "x y", "z")
	b := sessions.Fingerprint("a@example.com", "x", "y z")
	if a == b {
		t.Error("field boundaries must affect the fingerprint")
	}
}
