package parser

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/gmail/v1"
)

func encodeBody(s string) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(s))
}

func TestDecodeBody(t *testing.T) {
	t.Run("flat text part", func(t *testing.T) {
		msg := &gmail.Message{
			Payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: encodeBody("hello order")},
			},
		}
		assert.Equal(t, "hello order", DecodeBody(msg))
	})

	t.Run("nested multipart prefers first text leaf", func(t *testing.T) {
		msg := &gmail.Message{
			Payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "image/png", Body: &gmail.MessagePartBody{Data: encodeBody("binary")}},
					{
						MimeType: "multipart/related",
						Parts: []*gmail.MessagePart{
							{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encodeBody("<p>inner html</p>")}},
						},
					},
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encodeBody("outer plain")}},
				},
			},
		}
		assert.Equal(t, "<p>inner html</p>", DecodeBody(msg))
	})

	t.Run("falls back to snippet when tree has no text", func(t *testing.T) {
		msg := &gmail.Message{
			Snippet: "You made a sale",
			Payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{MimeType: "application/pdf", Body: &gmail.MessagePartBody{Data: encodeBody("pdf")}},
				},
			},
		}
		assert.Equal(t, "You made a sale", DecodeBody(msg))
	})

	t.Run("nil payload falls back to snippet", func(t *testing.T) {
		msg := &gmail.Message{Snippet: "snippet only"}
		assert.Equal(t, "snippet only", DecodeBody(msg))
	})

	t.Run("malformed base64 yields empty content", func(t *testing.T) {
		msg := &gmail.Message{
			Snippet: "snippet",
			Payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: "!!!not base64!!!"},
			},
		}
		assert.Equal(t, "", DecodeBody(msg))
	})

	t.Run("url safe alphabet is translated", func(t *testing.T) {
		// 0xfb 0xef encodes to "--" / "++" depending on alphabet
		raw := []byte{0xfb, 0xef, 0xbe}
		encoded := base64.URLEncoding.EncodeToString(raw)
		msg := &gmail.Message{
			Payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: encoded},
			},
		}
		assert.Equal(t, string(raw), DecodeBody(msg))
	})
}
