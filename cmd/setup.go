package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/elnpack/eln-packager-app/internal/config"
	"github.com/elnpack/eln-packager-app/internal/controllers/aws"
	"github.com/elnpack/eln-packager-app/internal/controllers/notebook"
	"github.com/elnpack/eln-packager-app/internal/handler"
	"github.com/elnpack/eln-packager-app/internal/packaging"
	"github.com/elnpack/eln-packager-app/internal/retry"
	"github.com/elnpack/eln-packager-app/internal/runtime"
)

// setup wires the controllers, assembler and handler into a runtime from the
// resolved configuration.
func setup(cmd *cobra.Command) (*runtime.Runtime, error) {
	executor := retry.NewExecutor(
		retry.WithLogger(logger.With("component", "retry-executor")),
		retry.WithMaxAttempts(config.Retry.MaxAttempts),
		retry.WithBackoff(config.Retry.BaseDelay, config.Retry.MaxDelay),
		retry.WithCallTimeout(config.Upstream.Timeout))

	logger.Debug("creating notebook controller...")
	notebookCtl, err := notebook.NewController(
		notebook.WithLogger(logger.With("component", "notebook-controller")),
		notebook.WithContext(cmd.Context()),
		notebook.WithBaseURL(config.Upstream.BaseURL),
		notebook.WithPageSize(config.Upstream.PageSize),
		notebook.WithCredentials(config.Upstream.ClientID, config.Upstream.ClientSecret, config.Upstream.TokenURL),
		notebook.WithExecutor(executor))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create notebook controller")
	}

	logger.Debug("creating aws controller...")
	awsCtl, err := aws.NewController(
		aws.WithLogger(logger.With("component", "aws-controller")),
		aws.WithContext(cmd.Context()),
		aws.WithBucket(config.Packaging.Bucket))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AWS controller")
	}

	assembler := packaging.NewAssembler(awsCtl, notebookCtl,
		config.Packaging.Namespace, config.Packaging.CatalogBaseURL,
		packaging.WithLogger(logger.With("component", "assembler")),
		packaging.WithPoolSize(config.Packaging.PoolSize))

	logger.Debug("creating packaging handler...")
	hdl, err := handler.NewHandler(
		handler.WithWebhookSecret(config.Webhook.Secret),
		handler.WithInsecureSkipVerification(config.Webhook.InsecureSkipVerification),
		handler.WithNotebookClient(notebookCtl),
		handler.WithManifestStore(awsCtl),
		handler.WithPackager(assembler),
		handler.WithNamespace(config.Packaging.Namespace),
		handler.WithCatalogBaseURL(config.Packaging.CatalogBaseURL),
		handler.WithCanvasPageSize(config.Canvas.PageSize),
		handler.WithContext(cmd.Context()),
		handler.WithLogger(logger.With("component", "packaging-handler")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create packaging handler")
	}

	return runtime.NewRuntime(hdl,
		runtime.WithLogger(logger.With("component", "runtime")),
		runtime.WithLambdaPayloadType(config.Lambda.PayloadType)), nil
}
