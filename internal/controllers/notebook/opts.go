package notebook

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/elnpack/eln-packager-app/internal/retry"
)

// WithLogger sets the logger instance for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithContext sets the context for the controller.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.ctx = ctx
	}
}

// WithBaseURL sets the notebook API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Controller) {
		c.baseURL = baseURL
	}
}

// WithPageSize sets the attachment listing page size.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithCredentials configures the OAuth2 client-credentials grant used to
// authenticate against the notebook API.
func WithCredentials(clientID, clientSecret, tokenURL string) Option {
	return func(c *Controller) {
		if clientID == "" && clientSecret == "" {
			return
		}
		c.creds = &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		}
	}
}

// WithHTTPClient overrides the HTTP client. Takes precedence over WithCredentials.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = client
	}
}

// WithExecutor sets the retry executor used for upstream calls.
func WithExecutor(executor *retry.Executor) Option {
	return func(c *Controller) {
		c.executor = executor
	}
}
