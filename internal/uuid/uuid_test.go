package uuid

import (
	"bytes"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	const s = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	id, err := Parse(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != s {
		t.Errorf("String() = %q; want %q", id.String(), s)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected an error for an invalid id")
	}
}

func TestScanValue(t *testing.T) {
	id := NewUUID()
	v, err := id.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	b, ok := v.([]byte)
	if !ok || len(b) != 16 {
		t.Fatalf("Value() = %T %v; want 16 bytes", v, v)
	}

	var got UUID
	if err := got.Scan(b); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !bytes.Equal(got[:], id[:]) {
		t.Errorf("Scan() = %s; want %s", got, id)
	}

	if err := got.Scan("text"); err == nil {
		t.Error("expected an error when scanning a string")
	}
}
