// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Runtime modes supported by the application.
const (
	ModeService = "service"
	ModeLambda  = "lambda"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Webhook is a struct that contains the webhook authentication configuration.
	Webhook webhook
	// Upstream is a struct that contains the notebook API configuration.
	Upstream upstream
	// Packaging is a struct that contains the package assembly configuration.
	Packaging packaging
	// Canvas is a struct that contains the canvas rendering configuration.
	Canvas canvas
	// Retry is a struct that contains the upstream retry configuration.
	Retry retry
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type webhook struct {
	// Secret is the shared secret used to verify inbound webhook signatures.
	Secret string `yaml:"secret,omitempty"`
	// InsecureSkipVerification disables signature verification. It is deliberately
	// only honoured from the local configuration file: there is no flag or
	// environment binding for it, so no remotely-sourced value can turn
	// verification off.
	InsecureSkipVerification bool `yaml:"insecureSkipVerification,omitempty"`
}

type upstream struct {
	// BaseURL is the base URL of the notebook API.
	BaseURL string `yaml:"baseUrl,omitempty"`
	// TokenURL is the OAuth2 client-credentials token endpoint of the notebook platform.
	TokenURL string `yaml:"tokenUrl,omitempty"`
	// ClientID is the tenant application client ID.
	ClientID string `yaml:"clientId,omitempty"`
	// ClientSecret is the tenant application client secret.
	ClientSecret string `yaml:"clientSecret,omitempty"`
	// TenantID identifies the notebook tenant this deployment serves.
	TenantID string `yaml:"tenantId,omitempty"`
	// Timeout is the per-call timeout applied to upstream requests.
	Timeout time.Duration `yaml:"timeout,omitempty" default:"10s"`
	// PageSize is the attachment listing page size requested from the upstream API.
	PageSize int `yaml:"pageSize,omitempty" default:"50"`
}

type packaging struct {
	// Bucket is the object storage bucket packages are written to.
	Bucket string `yaml:"bucket,omitempty"`
	// Namespace is the package namespace prepended to record IDs to form package names.
	Namespace string `yaml:"namespace,omitempty" default:"notebook"`
	// PoolSize is the fixed number of concurrent attachment transfers per webhook.
	PoolSize int `yaml:"poolSize,omitempty" default:"4"`
	// CatalogBaseURL is the base URL of the package catalog used for browse and revise links.
	CatalogBaseURL string `yaml:"catalogBaseUrl,omitempty"`
}

type canvas struct {
	// PageSize is the default number of files rendered per canvas file-list page.
	PageSize int `yaml:"pageSize,omitempty" default:"15"`
}

type retry struct {
	// MaxAttempts is the total attempt ceiling for a single upstream call.
	MaxAttempts int `yaml:"maxAttempts,omitempty" default:"3"`
	// BaseDelay is the initial backoff delay.
	BaseDelay time.Duration `yaml:"baseDelay,omitempty" default:"200ms"`
	// MaxDelay caps the backoff delay growth.
	MaxDelay time.Duration `yaml:"maxDelay,omitempty" default:"5s"`
}

type service struct {
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"30s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Webhook),
		defaults.Set(&Upstream),
		defaults.Set(&Packaging),
		defaults.Set(&Canvas),
		defaults.Set(&Retry),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global    global    `yaml:"global,omitempty"`
		Webhook   webhook   `yaml:"webhook,omitempty"`
		Upstream  upstream  `yaml:"upstream,omitempty"`
		Packaging packaging `yaml:"packaging,omitempty"`
		Canvas    canvas    `yaml:"canvas,omitempty"`
		Retry     retry     `yaml:"retry,omitempty"`
		Service   service   `yaml:"service,omitempty"`
		Lambda    lambda    `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Webhook = a.Webhook
	Upstream = a.Upstream
	Packaging = a.Packaging
	Canvas = a.Canvas
	Retry = a.Retry
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
