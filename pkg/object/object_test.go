package object

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindBlob, KindTree, KindCommit} {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k, err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%q): got %v, want %v", k, parsed, k)
		}
	}

	for _, bad := range []string{"", "Blob", "blobs", "tag", "commit "} {
		if _, err := ParseKind(bad); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("ParseKind(%q): got %v, want ErrUnknownKind", bad, err)
		}
	}
}

func TestParseID(t *testing.T) {
	hex := "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	id, err := ParseID(hex)
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if id.Hex() != hex {
		t.Errorf("Hex round trip: got %q, want %q", id.Hex(), hex)
	}

	for _, bad := range []string{"", "e69d", hex[:39], hex + "a", strings.Repeat("zz", 20)} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("ParseID(%q): expected error", bad)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		payload string
	}{
		{"empty blob", KindBlob, ""},
		{"small blob", KindBlob, "hello world\n"},
		{"binary blob", KindBlob, "\x00\x01\xff\xfe"},
		{"commit", KindCommit, "tree 0000000000000000000000000000000000000000\n\nmsg\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obj := &Object{
				Kind: tc.kind,
				Size: uint64(len(tc.payload)),
				R:    strings.NewReader(tc.payload),
			}

			var buf bytes.Buffer
			id, err := obj.Encode(&buf)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			decoded, err := Decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			defer decoded.Close()

			if decoded.Kind != tc.kind {
				t.Errorf("Kind: got %v, want %v", decoded.Kind, tc.kind)
			}
			if decoded.Size != uint64(len(tc.payload)) {
				t.Errorf("Size: got %d, want %d", decoded.Size, len(tc.payload))
			}
			payload, err := io.ReadAll(decoded.R)
			if err != nil {
				t.Fatalf("read payload: %v", err)
			}
			if string(payload) != tc.payload {
				t.Errorf("payload: got %q, want %q", payload, tc.payload)
			}
			if uint64(len(payload)) != decoded.Size {
				t.Errorf("consumed %d bytes, declared %d", len(payload), decoded.Size)
			}
			_ = id
		})
	}
}

// The identifier must match the wider ecosystem's convention: SHA-1 over
// the uncompressed "<kind> <size>\0" envelope.
func TestEncodeKnownIdentifiers(t *testing.T) {
	tests := []struct {
		payload string
		want    string
	}{
		{"", "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		{"hello world\n", "3b18e512dba79e4c8300dd08aeb37f8e728b8dad"},
	}

	for _, tc := range tests {
		obj := &Object{Kind: KindBlob, Size: uint64(len(tc.payload)), R: strings.NewReader(tc.payload)}
		id, err := obj.Encode(io.Discard)
		if err != nil {
			t.Fatalf("Encode(%q): %v", tc.payload, err)
		}
		if id.Hex() != tc.want {
			t.Errorf("Encode(%q): got %s, want %s", tc.payload, id.Hex(), tc.want)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	payload := "same content"
	var first ID
	for i := 0; i < 2; i++ {
		obj := &Object{Kind: KindBlob, Size: uint64(len(payload)), R: strings.NewReader(payload)}
		id, err := obj.Encode(io.Discard)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if i == 0 {
			first = id
		} else if id != first {
			t.Errorf("Encode not deterministic: %s != %s", id, first)
		}
	}
}

func TestEncodeEmptyBlobCanonicalBytes(t *testing.T) {
	obj := &Object{Kind: KindBlob, Size: 0, R: strings.NewReader("")}
	var buf bytes.Buffer
	if _, err := obj.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress read: %v", err)
	}
	if string(raw) != "blob 0\x00" {
		t.Errorf("canonical bytes: got %q, want %q", raw, "blob 0\x00")
	}
}

func TestEncodeSizeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		declared uint64
		payload  string
	}{
		{"payload short", 5, "ab"},
		{"payload long", 1, "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obj := &Object{Kind: KindBlob, Size: tc.declared, R: strings.NewReader(tc.payload)}
			if _, err := obj.Encode(io.Discard); !errors.Is(err, ErrSizeMismatch) {
				t.Errorf("got %v, want ErrSizeMismatch", err)
			}
		})
	}
}

func TestDecodeCorruptHeader(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"missing NUL", "blob 3abc", ErrCorrupt},
		{"missing space", "blob3\x00abc", ErrCorrupt},
		{"unknown kind", "blobx 3\x00abc", ErrUnknownKind},
		{"bad size", "blob x\x00abc", ErrCorrupt},
		{"negative size", "blob -1\x00abc", ErrCorrupt},
		{"overlong header", "blob " + strings.Repeat("9", 40) + "\x00", ErrCorrupt},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(zlibCompress(t, []byte(tc.raw))))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeTrailingBytesOverrun(t *testing.T) {
	// Header declares 3 payload bytes but the stream carries more.
	raw := zlibCompress(t, []byte("blob 3\x00abcEXTRA"))

	obj, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer obj.Close()

	_, err = io.ReadAll(obj.R)
	if !errors.Is(err, ErrOverrun) {
		t.Fatalf("trailing bytes: got %v, want ErrOverrun", err)
	}
}

func TestDecodeHugeDeclaredSize(t *testing.T) {
	// A header declaring MaxUint64 bytes must still drain the real payload
	// and terminate; the short count is then caught as a size mismatch.
	raw := zlibCompress(t, []byte("blob 18446744073709551615\x00abc"))

	obj, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj.R)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("payload: got %q, want %q", data, "abc")
	}
	if uint64(len(data)) == obj.Size {
		t.Fatal("truncation not observable: consumed count equals declared size")
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	// Header claims 100 bytes but the stream ends after 50. The bounded
	// reader yields what exists; the short count is the caller's to catch.
	payload := strings.Repeat("x", 50)
	raw := zlibCompress(t, []byte("blob 100\x00"+payload))

	obj, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj.R)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if len(data) != 50 {
		t.Fatalf("payload length: got %d, want 50", len(data))
	}
	if uint64(len(data)) == obj.Size {
		t.Fatal("truncation not observable: consumed count equals declared size")
	}
}
