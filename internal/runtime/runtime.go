// Package runtime adapts the handler to its two execution surfaces: a
// long-running HTTP service and an AWS Lambda function.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elnpack/eln-packager-app/internal/handler"
	"github.com/elnpack/eln-packager-app/internal/helpers"
	"github.com/elnpack/eln-packager-app/internal/models"
)

// Option is a functional option used to configure a Runtime instance.
type Option func(*Runtime)

// WithLogger sets the logger instance for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithLambdaPayloadType selects the Lambda response shape: api-gateway-v1,
// api-gateway-v2 or lambda-url.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.lambdaPayloadType = payloadType
	}
}

// Runtime wraps a Handler with the HTTP and Lambda entrypoints.
type Runtime struct {
	*handler.Handler
	logger            *slog.Logger
	lambdaPayloadType string
}

// NewRuntime creates a new runtime instance around the given handler.
func NewRuntime(h *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{
		Handler:           h,
		lambdaPayloadType: "api-gateway-v2",
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// webhookPaths is the collaborator contract with the notebook platform and
// must be preserved exactly.
var webhookPaths = []string{"/event", "/canvas", "/lifecycle"}

// Router builds the HTTP surface. Health endpoints always bypass the
// signature gate and must stay reachable for orchestration probes.
func (r *Runtime) Router() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/health", r.handleHealth)
	router.Get("/health/ready", r.handleHealth)
	router.Get("/health/live", r.handleHealth)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, path := range webhookPaths {
		router.Post(path, r.handleWebhook)
	}
	return router
}

func (r *Runtime) handleHealth(resp http.ResponseWriter, _ *http.Request) {
	helpers.RespondHTTP(models.Response{Body: `{"status":"ok"}`, StatusCode: http.StatusOK}, nil, resp)
}

func (r *Runtime) handleWebhook(resp http.ResponseWriter, req *http.Request) {
	logger := r.logger.With(slog.String("path", req.URL.Path), slog.String("requestor", req.RemoteAddr))
	logger.Debug("received HTTP request...")

	body, err := io.ReadAll(req.Body)
	if err != nil {
		logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusInternalServerError}, err, resp)
		return
	}

	result, err := r.Handler.Process(req.Context(), &models.Request{
		Path:    req.URL.Path,
		Body:    string(body),
		Headers: normaliseHeaders(req.Header),
	})
	if err != nil {
		logger.Warn("request not processed cleanly", slog.Any("error", err))
	}
	helpers.RespondHTTP(result, err, resp)
}

func normaliseHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for k, v := range header {
		if len(v) > 0 {
			headers[strings.ToLower(k)] = v[0]
		}
	}
	return headers
}

// LambdaRequest is the loose union of the API Gateway v1/v2 and Lambda URL
// request shapes, keeping only the fields the handler needs.
type LambdaRequest struct {
	Path    string            `json:"path"`
	RawPath string            `json:"rawPath"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

func (l *LambdaRequest) path() string {
	if l.RawPath != "" {
		return l.RawPath
	}
	return l.Path
}

// HandleEvent is the Lambda entrypoint for the runtime.
func (r *Runtime) HandleEvent(ctx context.Context, req LambdaRequest) (any, error) {
	path := req.path()
	r.logger.Info("received lambda request", slog.String("path", path))

	headers := make(map[string]string, len(req.Headers))
	for k, v := range req.Headers {
		headers[strings.ToLower(k)] = v
	}

	var result models.Response
	var err error
	if strings.HasPrefix(path, "/health") {
		result = models.Response{Body: `{"status":"ok"}`, StatusCode: http.StatusOK}
	} else {
		result, err = r.Handler.Process(ctx, &models.Request{
			Path:    path,
			Body:    req.Body,
			Headers: headers,
		})
		if err != nil {
			r.logger.Warn("request not processed cleanly", slog.Any("error", err))
		}
	}

	switch r.lambdaPayloadType {
	case "api-gateway-v1":
		return events.APIGatewayProxyResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case "api-gateway-v2":
		return events.APIGatewayV2HTTPResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case "lambda-url":
		return events.LambdaFunctionURLResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.lambdaPayloadType)
	}
}
