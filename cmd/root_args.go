package cmd

import (
	"time"

	"github.com/elnpack/eln-packager-app/internal/config"
	"github.com/elnpack/eln-packager-app/internal/helpers"
)

// Note: webhook.insecureSkipVerification deliberately has no flag or
// environment binding. It can only be set through the local configuration
// file.
var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'service' and 'lambda'",
		Short:       helpers.Ptr("m"),
	},
	&config.Webhook.Secret: {
		Name:        "webhook-secret",
		Description: "The shared secret used to verify inbound webhook signatures",
		Env:         helpers.Ptr("WEBHOOK_SECRET"),
	},
	&config.Upstream.BaseURL: {
		Name:        "upstream-base-url",
		Description: "The base URL of the notebook API",
	},
	&config.Upstream.TokenURL: {
		Name:        "upstream-token-url",
		Description: "The OAuth2 client-credentials token endpoint of the notebook platform",
	},
	&config.Upstream.ClientID: {
		Name:        "upstream-client-id",
		Description: "The tenant application client ID for the notebook API",
	},
	&config.Upstream.ClientSecret: {
		Name:        "upstream-client-secret",
		Description: "The tenant application client secret for the notebook API",
		Env:         helpers.Ptr("UPSTREAM_CLIENT_SECRET"),
	},
	&config.Upstream.TenantID: {
		Name:        "upstream-tenant-id",
		Description: "The notebook tenant this deployment serves",
	},
	&config.Packaging.Bucket: {
		Name:        "packaging-bucket",
		Description: "The object storage bucket packages are written to",
		Env:         helpers.Ptr("PACKAGE_BUCKET"),
	},
	&config.Packaging.Namespace: {
		Name:        "packaging-namespace",
		Description: "The package namespace prepended to record IDs to form package names",
	},
	&config.Packaging.CatalogBaseURL: {
		Name:        "packaging-catalog-base-url",
		Description: "The base URL of the package catalog used for browse and revise links",
	},
	&config.Service.Addr: {
		Name:        "service-host-addr",
		Description: "The address to serve the service on (default all interfaces)",
		Short:       helpers.Ptr("H"),
	},
	&config.Service.Port: {
		Name:        "service-host-port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
	},
	&config.Lambda.PayloadType: {
		Name:        "lambda-payload-type",
		Description: "The payload type to expect when running in Lambda mode. Supported values are 'api-gateway-v1', 'api-gateway-v2' and 'lambda-url'",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Upstream.Timeout: {
		Name:        "upstream-timeout",
		Description: "The per-call timeout applied to upstream notebook API requests",
	},
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations",
		Short:       helpers.Ptr("t"),
	},
}
