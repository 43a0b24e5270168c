package cache

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Payloads above compressThreshold bytes are zlib-compressed before being
// handed to the shared cache. A one-byte prefix records whether the rest of
// the payload is compressed.
const (
	compressThreshold = 1024

	flagRaw        = 0x00
	flagCompressed = 0x01
)

// Encode prepends the compression flag, compressing when the value is large
// enough to be worth it.
func Encode(value []byte) []byte {
	if len(value) <= compressThreshold {
		out := make([]byte, 0, len(value)+1)
		out = append(out, flagRaw)
		return append(out, value...)
	}

	var buf bytes.Buffer
	buf.WriteByte(flagCompressed)
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(value) //nolint:errcheck // bytes.Buffer writes cannot fail
	_ = w.Close()         //nolint:errcheck

	// Compression can lose on incompressible data
	if buf.Len() >= len(value)+1 {
		out := make([]byte, 0, len(value)+1)
		out = append(out, flagRaw)
		return append(out, value...)
	}

	return buf.Bytes()
}

// Decode reverses Encode, transparently inflating compressed payloads.
func Decode(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty cache payload")
	}

	flag, body := payload[0], payload[1:]
	switch flag {
	case flagRaw:
		return body, nil
	case flagCompressed:
		r, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("corrupt compressed payload: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("unknown compression flag 0x%02x", flag)
	}
}
