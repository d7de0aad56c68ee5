package google

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"autogroupchat/config"
)

type Client struct {
	Service *sheets.Service
}

// NewGoogleClient authenticates with the user token saved by Authorize when a credentials file
// is configured, and with the service account key otherwise.
func NewGoogleClient(ctx context.Context, logger *zap.Logger, cfg config.Google) (*Client, error) {
	var (
		httpClient *http.Client
		err        error
	)
	if cfg.CredentialsFile != "" {
		httpClient, err = userClient(ctx, logger, cfg)
	} else {
		httpClient, err = serviceAccountClient(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Client{Service: srv}, nil
}

func serviceAccountClient(ctx context.Context, cfg config.Google) (*http.Client, error) {
	b, err := os.ReadFile(cfg.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(b, scopes(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account file: %w", err)
	}
	return jwt.Client(ctx), nil
}

func scopes(cfg config.Google) []string {
	if len(cfg.Scopes) == 0 {
		return []string{sheets.SpreadsheetsReadonlyScope}
	}
	return cfg.Scopes
}
