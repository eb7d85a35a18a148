package parser

import (
	"encoding/base64"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// DecodeBody walks the message's body tree and returns the best available
// textual content, decoded from its transport encoding. When the tree yields
// nothing it falls back to the pre-extracted snippet. Decoding is best-effort:
// a malformed payload yields empty content, never an error.
func DecodeBody(msg *gmail.Message) string {
	if msg == nil || msg.Payload == nil {
		if msg != nil {
			return msg.Snippet
		}
		return ""
	}

	if data := findBodyData(msg.Payload); data != "" {
		return decodeBase64URL(data)
	}

	return msg.Snippet
}

// findBodyData searches the part tree depth-first, preferring the first leaf
// whose media type is HTML or plain text and whose payload is non-empty.
func findBodyData(part *gmail.MessagePart) string {
	for _, sub := range part.Parts {
		if data := findBodyData(sub); data != "" {
			return data
		}
	}

	if part.Body != nil && part.Body.Data != "" &&
		(part.MimeType == "text/html" || part.MimeType == "text/plain") {
		return part.Body.Data
	}

	return ""
}

// decodeBase64URL translates the URL-safe alphabet back to the standard one
// and decodes. Gmail omits padding, so pad up before decoding.
func decodeBase64URL(encoded string) string {
	s := strings.ReplaceAll(encoded, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(decoded)
}
