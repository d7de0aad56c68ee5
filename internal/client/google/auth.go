package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"autogroupchat/config"
)

// Authorize runs the installed-application OAuth flow: it prints a consent URL, waits for the
// redirect on a local port and saves the resulting token to cfg.TokenFile.
func Authorize(ctx context.Context, logger *zap.Logger, cfg config.Google, out io.Writer) error {
	conf, err := oauthConfig(cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("unable to listen for the OAuth callback: %w", err)
	}
	conf.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", ln.Addr().(*net.TCPAddr).Port)

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state || q.Get("code") == "" {
			http.Error(w, "Authorization failed.", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this tab.")
		select {
		case codeCh <- q.Get("code"):
		default:
		}
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer srv.Shutdown(context.Background())

	fmt.Fprintf(out, "Open this link in your browser:\n\n%s\n\n", conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))
	logger.Info("Waiting for OAuth callback", zap.String("redirect_url", conf.RedirectURL))

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return fmt.Errorf("OAuth callback server failed: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to exchange authorization code: %w", err)
	}
	if err := saveToken(cfg.TokenFile, tok); err != nil {
		return fmt.Errorf("unable to save token: %w", err)
	}

	logger.Info("Token saved", zap.String("path", cfg.TokenFile))
	return nil
}
