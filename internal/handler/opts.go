package handler

import (
	"context"
	"log/slog"

	"github.com/elnpack/eln-packager-app/internal/validation"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContext sets the context for the handler.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.ctx = ctx
	}
}

// WithWebhookSecret configures the handler with the shared secret used for
// request signature validation.
func WithWebhookSecret(secret string) Option {
	return func(h *Handler) {
		h.secret = validation.NewWebhookSecret(secret)
	}
}

// WithInsecureSkipVerification disables signature validation. Only ever
// wired from locally-controlled configuration, never from the environment.
func WithInsecureSkipVerification(skip bool) Option {
	return func(h *Handler) {
		h.insecureSkipVerification = skip
	}
}

// WithNotebookClient sets the upstream notebook API client.
func WithNotebookClient(client NotebookClient) Option {
	return func(h *Handler) {
		h.notebook = client
	}
}

// WithManifestStore sets the object store manifests are read from.
func WithManifestStore(store ManifestStore) Option {
	return func(h *Handler) {
		h.store = store
	}
}

// WithPackager sets the package assembler.
func WithPackager(packager Packager) Option {
	return func(h *Handler) {
		h.packager = packager
	}
}

// WithNamespace sets the package namespace prefix.
func WithNamespace(namespace string) Option {
	return func(h *Handler) {
		h.namespace = namespace
	}
}

// WithCatalogBaseURL sets the base URL of the package catalog.
func WithCatalogBaseURL(baseURL string) Option {
	return func(h *Handler) {
		h.catalogBaseURL = baseURL
	}
}

// WithCanvasPageSize sets the page size used for canvas file browsing.
func WithCanvasPageSize(size int) Option {
	return func(h *Handler) {
		if size > 0 {
			h.canvasPageSize = size
		}
	}
}
