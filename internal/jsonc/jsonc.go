// Package jsonc preprocesses JSON5/JSONC documents (JSON plus "//" and
// "/* */" comments) into plain JSON that encoding/json can decode. Both the
// package manifest and external toolchain descriptors use this format.
//
// There is no JSON5/JSONC parsing library anywhere in the retrieved
// dependency pack; this preprocessor plus encoding/json covers the subset
// of JSON5 both formats actually use (comments only — no trailing commas,
// unquoted keys, or single-quoted strings).
package jsonc

import (
	"bytes"
	"encoding/json"
)

// Strip removes "//" line comments and "/* */" block comments from src,
// leaving string literal contents untouched.
func Strip(src []byte) []byte {
	var out bytes.Buffer
	inString := false
	inLineComment := false
	inBlockComment := false
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inLineComment:
			if c == '\n' {
				inLineComment = false
				out.WriteByte(c)
			}
		case inBlockComment:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				inBlockComment = false
				i++
			}
		case inString:
			out.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		default:
			if c == '"' {
				inString = true
				out.WriteByte(c)
			} else if c == '/' && i+1 < len(src) && src[i+1] == '/' {
				inLineComment = true
				i++
			} else if c == '/' && i+1 < len(src) && src[i+1] == '*' {
				inBlockComment = true
				i++
			} else {
				out.WriteByte(c)
			}
		}
	}
	return out.Bytes()
}

// UnmarshalStrict strips comments from data and decodes it into v,
// rejecting fields not present in v's struct tags.
func UnmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(Strip(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
