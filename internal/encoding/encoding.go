// Package encoding provides reversible text transforms used for
// transport-safe framing. Encoding is not encryption: nothing here
// protects confidentiality.
package encoding

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
)

// ErrMalformedInput indicates the input is not a valid encoded token.
var ErrMalformedInput = errors.New("encoding: malformed input")

// EncodeBase64 returns the standard base64 representation of text.
func EncodeBase64(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeBase64 reverses EncodeBase64.
func DecodeBase64(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return string(decoded), nil
}

// EncodeURL escapes text for safe use in a URL component.
func EncodeURL(text string) string {
	return url.QueryEscape(text)
}

// DecodeURL reverses EncodeURL.
func DecodeURL(encoded string) (string, error) {
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return decoded, nil
}
