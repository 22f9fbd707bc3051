// Package encoding normalizes uploaded roster files to UTF-8. Client exports
// from Excel and Sheets commonly arrive as Windows-1252 or UTF-16 rather than
// UTF-8, and the Spanish field content (accents, ñ) makes a wrong guess very
// visible.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

// NewUTF8Reader wraps r so that reads yield UTF-8 text regardless of the
// source encoding. A UTF-8 BOM is stripped, UTF-16 is decoded by BOM, valid
// UTF-8 passes through untouched, and everything else goes through charset
// detection with a Windows-1252 fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		_, _ = br.Discard(3)
		return br, nil
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if best, err := chardet.NewTextDetector().DetectBest(head); err == nil && best.Charset == "UTF-8" {
		return br, nil
	}

	// Detection otherwise lands on ISO-8859-1 or a close relative. Decode as
	// Windows-1252, its superset: Excel exports use the 0x80-0x9F range for
	// smart quotes, never for C1 controls.
	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
