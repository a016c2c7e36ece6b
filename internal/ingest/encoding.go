package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// textEncoding is one candidate in the fallback chain. accept reports
// whether data plausibly is in this encoding; decode converts it to UTF-8.
// singleByte candidates enable the ISO-8859-1 last resort in decodeText.
type textEncoding struct {
	name       string
	accept     func(data []byte) bool
	decode     func(data []byte) (string, error)
	singleByte bool
}

// cp1252Undefined are the Windows-1252 bytes with no assigned character.
var cp1252Undefined = [256]bool{0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true}

var (
	encUTF8 = textEncoding{
		name:   "utf-8",
		accept: utf8.Valid,
		decode: func(data []byte) (string, error) { return string(data), nil },
	}
	encLatin1 = textEncoding{
		name:       "latin-1",
		accept:     noC1Controls,
		decode:     charmapDecoder(charmap.ISO8859_1),
		singleByte: true,
	}
	encWindows1252 = textEncoding{
		name: "windows-1252",
		accept: func(data []byte) bool {
			for _, b := range data {
				if cp1252Undefined[b] {
					return false
				}
			}
			return true
		},
		decode:     charmapDecoder(charmap.Windows1252),
		singleByte: true,
	}
)

// lookupEncoding maps a configured name to its candidate.
func lookupEncoding(name string) (textEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return encUTF8, nil
	case "latin-1", "latin1":
		return encLatin1, nil
	case "iso-8859-1", "iso8859-1":
		enc := encLatin1
		enc.name = "iso-8859-1"
		return enc, nil
	case "windows-1252", "cp1252":
		return encWindows1252, nil
	default:
		return textEncoding{}, fmt.Errorf("unsupported text encoding %q", name)
	}
}

// noC1Controls rejects bytes 0x80-0x9F. In ISO-8859-1 these decode to C1
// control characters, which never appear in real exports but are printable
// punctuation in Windows-1252.
func noC1Controls(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return false
		}
	}
	return true
}

func charmapDecoder(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		if strings.ContainsRune(string(out), utf8.RuneError) {
			return "", fmt.Errorf("undefined code points for %s", cm)
		}
		return string(out), nil
	}
}

// decodeText tries each encoding in order and returns the first accepted
// decoding. attempts lists the names tried, in order.
//
// ISO-8859-1 maps every byte, so when the chain holds any single-byte
// encoding and none accepted the content, it is decoded as ISO-8859-1
// unchecked. Only a UTF-8-only chain can fail.
func decodeText(data []byte, encodings []textEncoding) (text, used string, attempts []string, ok bool) {
	lastResort := false
	for _, enc := range encodings {
		attempts = append(attempts, enc.name)
		lastResort = lastResort || enc.singleByte
		if !enc.accept(data) {
			continue
		}
		s, err := enc.decode(data)
		if err != nil {
			continue
		}
		return s, enc.name, attempts, true
	}
	if lastResort {
		s, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err == nil {
			return string(s), "iso-8859-1", attempts, true
		}
	}
	return "", "", attempts, false
}
