package gmail

import (
	"context"
	"errors"
	"fmt"
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc = orderdomain.TokenUpdateFunc

// maxResultsPerPage is the Gmail API maximum page size for message listing.
const maxResultsPerPage = 500

type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			fmt.Printf("Failed to update token: %v\n", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// GetGmailService creates Gmail service with user's access token
func (s *Service) GetGmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	// Wrap token source to detect refreshes
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// GetProfileEmail resolves the authenticated user's email address
func (s *Service) GetProfileEmail(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (string, error) {
	srv, err := s.GetGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return "", err
	}

	profile, err := srv.Users.GetProfile("me").Do()
	if err != nil {
		return "", errors.New("invalid or expired access token")
	}

	return profile.EmailAddress, nil
}

// SearchMessageIDs returns all message refs matching the query, following
// pagination until the provider stops returning a continuation token. An
// empty first page means no matches, not an error; any failed request is
// surfaced to the caller without retry.
func (s *Service) SearchMessageIDs(ctx context.Context, accessToken, refreshToken, query string, onTokenRefresh TokenUpdateFunc) ([]orderdomain.MessageRef, error) {
	srv, err := s.GetGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	user := "me"
	var refs []orderdomain.MessageRef
	pageToken := ""

	for {
		listQuery := srv.Users.Messages.List(user).Q(query).MaxResults(maxResultsPerPage)
		if pageToken != "" {
			listQuery = listQuery.PageToken(pageToken)
		}

		resp, err := listQuery.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve messages: %v", err)
		}

		if len(resp.Messages) == 0 {
			break
		}
		for _, msg := range resp.Messages {
			refs = append(refs, orderdomain.MessageRef{ID: msg.Id, ThreadID: msg.ThreadId})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return refs, nil
}

// GetMessage retrieves a specific message with its full body structure
func (s *Service) GetMessage(ctx context.Context, accessToken, refreshToken, messageID string, onTokenRefresh TokenUpdateFunc) (*gmail.Message, error) {
	srv, err := s.GetGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message: %v", err)
	}

	return msg, nil
}

// ValidateToken validates the access token by making a simple API call
func (s *Service) ValidateToken(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) error {
	_, err := s.GetProfileEmail(ctx, accessToken, refreshToken, onTokenRefresh)
	return err
}
