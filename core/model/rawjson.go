package model

import (
	"bytes"
	"encoding/json"

	"github.com/buger/jsonparser"
)

// literalStrings rewrites every string token of raw that carries escape
// sequences so that non-ASCII and HTML characters appear literally. Numbers,
// literals and structure are copied byte for byte.
func literalStrings(raw json.RawMessage) json.RawMessage {
	if bytes.IndexByte(raw, '\\') < 0 {
		return raw
	}
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		if raw[i] != '"' {
			out = append(out, raw[i])
			i++
			continue
		}
		end := stringEnd(raw, i+1)
		if end < 0 {
			return raw
		}
		out = appendLiteral(out, raw[i:end+1])
		i = end + 1
	}
	return out
}

// stringEnd returns the index of the quote closing the string whose body
// starts at start, or -1.
func stringEnd(raw []byte, start int) int {
	for j := start; j < len(raw); j++ {
		switch raw[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return -1
}

func appendLiteral(out, quoted []byte) []byte {
	body := quoted[1 : len(quoted)-1]
	if bytes.IndexByte(body, '\\') < 0 {
		return append(out, quoted...)
	}
	s, err := jsonparser.ParseString(body)
	if err != nil {
		return append(out, quoted...)
	}
	enc, err := encodeString(s)
	if err != nil {
		return append(out, quoted...)
	}
	return append(out, enc...)
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
