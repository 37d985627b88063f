// Package aws provides the Controller struct that wraps AWS services and provides package object storage with context and logging support.
package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/logging"
	"github.com/pkg/errors"

	"github.com/elnpack/eln-packager-app/internal/helpers"
)

// ErrObjectNotFound is returned by GetObject when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Controller wraps the S3 client used for package storage with context and logging support.
type Controller struct {
	ctx    context.Context
	logger *slog.Logger

	config   *aws.Config
	s3Client *s3.Client
	bucket   string
}

// Option defines a function type used to configure an instance of the Controller struct.
type Option func(*Controller)

// NewController initializes a Controller with customizable options and default configurations if unspecified.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "aws")
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.bucket == "" {
		return nil, errors.New("missing package storage bucket")
	}
	if _inst.config == nil {
		_inst.logger.Debug("loading default AWS configuration...")
		cfg, err := config.LoadDefaultConfig(_inst.ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS configuration")
		}
		cfg.Logger = newAWSLogger(_inst.logger)
		_inst.config = &cfg
	}

	_inst.s3Client = s3.NewFromConfig(*_inst.config)
	return _inst, nil
}

// PutObject uploads an object under the given key. Repeating a put for the
// same key and content is idempotent at the storage level.
func (a *Controller) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	a.logger.Debug("uploading object...", slog.String("key", key), slog.Int("size", len(body)))
	out, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to put object %s", key)
	}
	a.logger.Debug("object uploaded",
		slog.String("key", key),
		slog.String("versionId", helpers.String(out.VersionId)))
	return nil
}

// GetObject retrieves the object stored under the given key, returning
// ErrObjectNotFound when the key does not exist.
func (a *Controller) GetObject(ctx context.Context, key string) ([]byte, error) {
	a.logger.Debug("fetching object...", slog.String("key", key))
	out, err := a.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &a.bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrapf(err, "failed to get object %s", key)
	}
	defer func() { _ = out.Body.Close() }()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read object %s", key)
	}
	return content, nil
}

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}

func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	a.logger.Debug(fmt.Sprintf("[%v] %s", classification, fmt.Sprintf(format, args...)))
}
