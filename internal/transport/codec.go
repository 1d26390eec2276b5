// Package transport converts script text to and from the compact URL-safe
// form used for share links and as the wire payload for the remote service.
package transport

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEncodeFailed reports that a script could not be encoded. The legacy
	// capability signalled this with an empty result string; an empty encoded
	// value is still treated as this failure, never as a valid payload.
	ErrEncodeFailed = errors.New("script encode failed")
	// ErrDecodeFailed reports that an encoded string could not be decoded.
	// Callers treat it as "no prior script" and fall back to the seed script.
	ErrDecodeFailed = errors.New("script decode failed")
)

// Codec round-trips script text through the shareable encoded form.
type Codec interface {
	Encode(script string) (string, error)
	Decode(encoded string) (string, error)
}

// FlateCodec is the standard codec: NFC normalization, raw deflate at best
// compression, then unpadded base64url.
type FlateCodec struct{}

var _ Codec = FlateCodec{}

// Encode compresses and encodes script. An empty script (and an empty encode
// result) is a failure, preserving the empty-string sentinel convention.
func (FlateCodec) Encode(script string) (string, error) {
	if script == "" {
		return "", ErrEncodeFailed
	}
	// Normalize so that composed and decomposed input produce the same link.
	script = norm.NFC.String(script)

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	if _, err := w.Write([]byte(script)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	out := base64.RawURLEncoding.EncodeToString(buf.Bytes())
	if out == "" {
		return "", ErrEncodeFailed
	}
	return out, nil
}

// Decode is the inverse of Encode. An empty decoded result is a failure, not
// a valid empty script.
func (FlateCodec) Decode(encoded string) (string, error) {
	if encoded == "" {
		return "", ErrDecodeFailed
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	script, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if len(script) == 0 {
		return "", ErrDecodeFailed
	}
	return string(script), nil
}
