package object

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
)

// Object is a typed, length-declared unit of storage. Size is the exact
// byte count of the payload behind R; it is verified against the bytes
// actually streamed. The payload is consumed at most once.
type Object struct {
	Kind Kind
	Size uint64
	R    io.Reader

	c io.Closer // set on objects backed by an open file or stream
}

// Close releases whatever backs the payload reader, if anything does.
func (o *Object) Close() error {
	if o.c == nil {
		return nil
	}
	return o.c.Close()
}

// BlobFromFile builds a blob object streaming from the file at path. The
// caller must Close it once the payload has been consumed.
func BlobFromFile(path string) (*Object, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Object{
		Kind: KindBlob,
		Size: uint64(info.Size()),
		R:    f,
		c:    f,
	}, nil
}

// Encode streams the canonical form "<kind> <size>\0" + payload through
// zlib into w and returns the SHA-1 of the uncompressed canonical bytes.
// A payload that yields a byte count other than Size fails with
// ErrSizeMismatch; nothing useful has reached w by then, the caller
// discards it.
func (o *Object) Encode(w io.Writer) (ID, error) {
	zw := zlib.NewWriter(w)
	hw := newHashWriter(zw)

	if _, err := fmt.Fprintf(hw, "%s %d\x00", o.Kind, o.Size); err != nil {
		return ID{}, fmt.Errorf("write object header: %w", err)
	}
	n, err := io.Copy(hw, o.R)
	if err != nil {
		return ID{}, fmt.Errorf("stream object payload: %w", err)
	}
	if uint64(n) != o.Size {
		return ID{}, fmt.Errorf("declared %d bytes, streamed %d: %w", o.Size, n, ErrSizeMismatch)
	}
	if err := zw.Close(); err != nil {
		return ID{}, fmt.Errorf("finish compressed stream: %w", err)
	}
	return hw.Sum(), nil
}

// maxHeaderLen bounds the header scan during decode. The longest valid
// header is "commit " plus a 20-digit size.
const maxHeaderLen = 32

// Decode parses a compressed canonical stream. The returned object's
// payload reader is bounded to the declared size; the codec never reads
// the payload itself. The caller must verify, after consuming the payload,
// that it was not shorter than Size — the bounded reader only catches
// overlong payloads.
func Decode(r io.Reader) (*Object, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open compressed stream: %w", err)
	}
	br := bufio.NewReader(zr)

	kind, size, err := readHeader(br)
	if err != nil {
		zr.Close()
		return nil, err
	}
	return &Object{
		Kind: kind,
		Size: size,
		R:    NewLimitReader(br, size),
		c:    zr,
	}, nil
}

func readHeader(br *bufio.Reader) (Kind, uint64, error) {
	var header []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("header missing NUL terminator: %w", ErrCorrupt)
		}
		if b == 0 {
			break
		}
		header = append(header, b)
		if len(header) > maxHeaderLen {
			return 0, 0, fmt.Errorf("no NUL within %d header bytes: %w", maxHeaderLen, ErrCorrupt)
		}
	}
	if !utf8.Valid(header) {
		return 0, 0, fmt.Errorf("header is not valid UTF-8: %w", ErrCorrupt)
	}
	kindTok, sizeTok, ok := strings.Cut(string(header), " ")
	if !ok {
		return 0, 0, fmt.Errorf("header %q has no space separator: %w", header, ErrCorrupt)
	}
	kind, err := ParseKind(kindTok)
	if err != nil {
		return 0, 0, err
	}
	size, err := strconv.ParseUint(sizeTok, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("header size %q: %w", sizeTok, ErrCorrupt)
	}
	return kind, size, nil
}
