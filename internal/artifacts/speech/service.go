package speech

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/texttospeech/v1"
)

// Credentials selects how the client authenticates.
// AccessToken wins over File; with neither, Application Default Credentials are used.
type Credentials struct {
	// AccessToken is a pre-issued OAuth2 bearer token.
	AccessToken string

	// File is a service account JSON file.
	File string

	// Endpoint overrides the API endpoint.
	Endpoint string
}

// NewService creates a Text-to-Speech API service.
func NewService(ctx context.Context, creds Credentials, extra ...option.ClientOption) (*texttospeech.Service, error) {
	var opts []option.ClientOption
	switch {
	case creds.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: creds.AccessToken,
			TokenType:   "Bearer",
		})
		opts = append(opts, option.WithTokenSource(ts))
	case creds.File != "":
		opts = append(opts, option.WithCredentialsFile(creds.File))
	}
	if creds.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(creds.Endpoint))
	}
	opts = append(opts, extra...)

	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create text-to-speech service: %w", err)
	}
	return svc, nil
}
