// Package urlfile reads the newline-delimited URL list that drives a run.
package urlfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Read loads URLs from path, one per line. Blank lines and lines starting
// with '#' are skipped. Lines without a scheme are defaulted to http:// with
// a logged warning. Order and duplicates are preserved.
//
// The file encoding is auto-detected: UTF-8 (with or without BOM) and UTF-16
// BOM variants are handled directly, anything else goes through charset
// detection. Read fails only when no decoding yields valid text.
func Read(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}

	text, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode URL file %s: %w", path, err)
	}

	var urls []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
			log.Warn().Int("line", lineNo).Str("url", line).Msg("URL has no scheme, assuming http://")
			line = "http://" + line
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan URL file: %w", err)
	}

	log.Debug().Int("count", len(urls)).Str("file", path).Msg("URL list loaded")
	return urls, nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decode tries a prioritized list of encodings and returns the first decoding
// that produces valid text.
func decode(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), nil
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return "", fmt.Errorf("UTF-16 decode: %w", err)
		}
		return string(out), nil
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// Fall back to charset detection for legacy encodings (GBK, Latin-1, ...).
	enc, name, _ := charset.DetermineEncoding(raw, "text/plain")
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil || !utf8.Valid(out) {
		return "", fmt.Errorf("unsupported encoding (detected %q)", name)
	}
	log.Debug().Str("encoding", name).Msg("URL file decoded with detected charset")
	return string(out), nil
}
