package cache

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecode_Small(t *testing.T) {
	value := []byte("small payload")

	encoded := Encode(value)
	if encoded[0] != flagRaw {
		t.Errorf("small payload flag = 0x%02x, want raw", encoded[0])
	}
	if len(encoded) != len(value)+1 {
		t.Errorf("raw encoding length = %d, want %d", len(encoded), len(value)+1)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, value) {
		t.Errorf("round trip mismatch")
	}
}

func TestEncodeDecode_Large(t *testing.T) {
	// Repetitive payload well over the threshold compresses
	value := []byte(strings.Repeat("maritime route segment ", 200))

	encoded := Encode(value)
	if encoded[0] != flagCompressed {
		t.Errorf("large payload flag = 0x%02x, want compressed", encoded[0])
	}
	if len(encoded) >= len(value) {
		t.Errorf("compressed size %d not smaller than input %d", len(encoded), len(value))
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, value) {
		t.Errorf("round trip mismatch")
	}
}

func TestEncode_ThresholdBoundary(t *testing.T) {
	at := bytes.Repeat([]byte{'a'}, compressThreshold)
	if encoded := Encode(at); encoded[0] != flagRaw {
		t.Errorf("payload at threshold should stay raw")
	}

	over := bytes.Repeat([]byte{'a'}, compressThreshold+1)
	if encoded := Encode(over); encoded[0] != flagCompressed {
		t.Errorf("payload over threshold should be compressed")
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("Decode(nil) should fail")
	}
	if _, err := Decode([]byte{}); err == nil {
		t.Error("Decode(empty) should fail")
	}
	if _, err := Decode([]byte{0x7f, 1, 2}); err == nil {
		t.Error("Decode with unknown flag should fail")
	}
	if _, err := Decode([]byte{flagCompressed, 1, 2, 3}); err == nil {
		t.Error("Decode with corrupt zlib body should fail")
	}
}

func TestDecode_EmptyRawBody(t *testing.T) {
	decoded, err := Decode(Encode(nil))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("decoded = %v, want empty", decoded)
	}
}
