package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"autogroupchat/config"
)

// ErrNoToken is returned when user credentials are configured but no token was saved yet.
var ErrNoToken = errors.New("no saved token, run the auth command first")

func oauthConfig(cfg config.Google) (*oauth2.Config, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	conf, err := google.ConfigFromJSON(b, scopes(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	return conf, nil
}

func userClient(ctx context.Context, logger *zap.Logger, cfg config.Google) (*http.Client, error) {
	conf, err := oauthConfig(cfg)
	if err != nil {
		return nil, err
	}
	tok, err := readToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	ts := &savingTokenSource{
		logger: logger,
		path:   cfg.TokenFile,
		src:    conf.TokenSource(ctx, tok),
		last:   tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

// savingTokenSource writes refreshed tokens back to disk so the next run starts from them.
type savingTokenSource struct {
	logger *zap.Logger
	path   string
	src    oauth2.TokenSource

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := saveToken(s.path, tok); err != nil {
			// the run can go on with the in-memory token
			s.logger.Error("Failed to save refreshed token", zap.String("path", s.path), zap.Error(err))
		}
	}
	return tok, nil
}

func readToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoToken, path)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("unable to parse token file %s: %w", path, err)
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	b, err := json.MarshalIndent(tok, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
