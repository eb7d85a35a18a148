package domain

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc func(token *oauth2.Token) error

// MessageRef is an opaque reference to a mailbox message (id + thread id),
// retained on the order record for traceability.
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
}

// MailProvider abstracts the mail provider API consumed by the scan pipeline.
// Implemented by pkg/gmail; faked in tests.
type MailProvider interface {
	// GetProfileEmail resolves the mailbox owner's address for the given token.
	GetProfileEmail(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (string, error)
	// SearchMessageIDs returns all message refs matching the query, following
	// pagination until exhaustion. Any non-success response is a hard failure.
	SearchMessageIDs(ctx context.Context, accessToken, refreshToken, query string, onTokenRefresh TokenUpdateFunc) ([]MessageRef, error)
	// GetMessage fetches the full message detail. No retry on failure; the
	// caller treats a failed detail fetch as a per-message failure.
	GetMessage(ctx context.Context, accessToken, refreshToken, messageID string, onTokenRefresh TokenUpdateFunc) (*gmail.Message, error)
}
