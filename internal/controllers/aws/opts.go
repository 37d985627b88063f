package aws

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
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

// WithConfig overrides the AWS configuration. Used by tests to point the
// client at a stub endpoint.
func WithConfig(cfg *aws.Config) Option {
	return func(c *Controller) {
		c.config = cfg
	}
}

// WithBucket sets the package storage bucket.
func WithBucket(bucket string) Option {
	return func(c *Controller) {
		c.bucket = bucket
	}
}
