package content

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// minDetectConfidence is the chardet confidence needed to override the
// declared or sniffed encoding.
const minDetectConfidence = 50

// DecodeUTF8 converts a response body to UTF-8 using the charset of its
// Content-Type, falling back to sniffing, and strips a UTF-8 byte order
// mark. Textual bodies that are not valid UTF-8 and carry no usable charset
// are run through statistical detection.
func DecodeUTF8(contentType string) TransformerFunc {
	textual := false
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		textual = strings.HasPrefix(mediaType, "text/") || strings.HasSuffix(mediaType, "json")
	}

	return func(input []byte) ([]byte, error) {
		enc, name, certain := charset.DetermineEncoding(input, contentType)
		if !certain && textual && !utf8.Valid(input) {
			if detected, detectedName := detect(input); detected != nil {
				enc, name = detected, detectedName
			}
		}
		slog.Debug("decoding response body",
			slog.String("encoding", name),
			slog.Bool("certain", certain),
			slog.String("content_type", contentType))

		output, err := decode(input, enc)
		if err != nil {
			return nil, err
		}
		return bytes.TrimPrefix(output, utf8BOM), nil
	}
}

func detect(input []byte) (encoding.Encoding, string) {
	result, err := chardet.NewTextDetector().DetectBest(input)
	if err != nil || result.Confidence < minDetectConfidence {
		return nil, ""
	}
	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		return nil, ""
	}
	return enc, result.Charset
}

func decode(input []byte, enc encoding.Encoding) ([]byte, error) {
	if enc == encoding.Nop || enc == unicode.UTF8 {
		return input, nil
	}
	output, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(input)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode to UTF-8: %w", err)
	}
	return output, nil
}
