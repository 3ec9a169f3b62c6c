package delimited

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrUndecodable is returned when no candidate encoding accepts the input.
var ErrUndecodable = errors.New("could not decode text with any available encoding")

// Decode converts raw bytes to text. A byte order mark decides the encoding
// outright; otherwise each candidate is tried in order and the first that
// accepts the input wins. "utf-8" only accepts valid UTF-8. The name of the
// encoding used is returned with the text.
func Decode(data []byte, encodings []string) (string, string, error) {
	if enc, name, certain := charset.DetermineEncoding(data, "text/plain"); certain {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", "", fmt.Errorf("decoding %s: %w", name, err)
		}
		return stripBOM(string(out)), name, nil
	}

	for _, label := range encodings {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "utf-8" || label == "utf8" {
			if utf8.Valid(data) {
				return stripBOM(string(data)), "utf-8", nil
			}
			continue
		}

		enc, err := htmlindex.Get(label)
		if err != nil {
			continue
		}
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return stripBOM(string(out)), label, nil
	}

	return "", "", ErrUndecodable
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
