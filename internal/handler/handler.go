// Package handler orchestrates webhook processing: signature verification,
// upstream fetch, package assembly and canvas rendering.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/elnpack/eln-packager-app/internal/canvas"
	"github.com/elnpack/eln-packager-app/internal/helpers"
	"github.com/elnpack/eln-packager-app/internal/metrics"
	"github.com/elnpack/eln-packager-app/internal/models"
	"github.com/elnpack/eln-packager-app/internal/packaging"
	"github.com/elnpack/eln-packager-app/internal/retry"
	"github.com/elnpack/eln-packager-app/internal/validation"
)

// HandledEventTypes lists the notification types accepted on /event.
var HandledEventTypes = []string{
	models.EventEntryCreated,
	models.EventEntryUpdated,
}

// NotebookClient is the upstream API surface the orchestrator fetches from.
type NotebookClient interface {
	GetEntry(ctx context.Context, recordID string) (*models.Record, error)
	ListAttachments(ctx context.Context, recordID string) ([]models.AttachmentRef, error)
}

// ManifestStore reads previously committed manifests for idempotency checks
// and canvas browsing. The handler never writes storage; the assembler does.
type ManifestStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// Packager assembles a fetched record into a stored package.
type Packager interface {
	Assemble(ctx context.Context, record *models.Record) (*packaging.Result, error)
}

// Option is a functional option used to configure a Handler instance.
type Option func(*Handler)

// Handler drives a webhook through verification, fetch, assembly and
// rendering. It holds no per-request state and is safe for concurrent use.
type Handler struct {
	ctx                      context.Context
	logger                   *slog.Logger
	secret                   *validation.WebhookSecret
	insecureSkipVerification bool
	notebook                 NotebookClient
	store                    ManifestStore
	packager                 Packager
	namespace                string
	catalogBaseURL           string
	canvasPageSize           int
}

// NewHandler initializes a Handler with the given options.
func NewHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		canvasPageSize: 15,
		namespace:      "notebook",
	}
	for _, opt := range options {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.notebook == nil {
		return nil, errors.New("missing notebook client")
	}
	if _inst.store == nil {
		return nil, errors.New("missing manifest store")
	}
	if _inst.packager == nil {
		return nil, errors.New("missing packager")
	}
	if _inst.secret == nil && !_inst.insecureSkipVerification {
		return nil, errors.New("missing webhook secret")
	}
	return _inst, nil
}

// Process runs one webhook request through the state machine and returns the
// response to send. ctx is the inbound request's context: when the client
// disconnects, no new upstream downloads are dispatched. The error return
// mirrors the failure already encoded in the response, for the caller's
// logging.
func (h *Handler) Process(ctx context.Context, req *models.Request) (models.Response, error) {
	if ctx == nil {
		ctx = h.ctx
	}
	surface := strings.TrimPrefix(req.Path, "/")
	processingID := uuid.NewString()
	logger := h.logger.With(
		slog.String("surface", surface),
		slog.String("processingId", processingID))
	logger.Info("processing request...")

	verifyLogger := logger.With(slog.String("stage", string(StageVerifying)))
	if h.insecureSkipVerification {
		verifyLogger.Warn("signature verification is disabled")
	} else if err := h.secret.ValidateSignature([]byte(req.Body), req.Headers); err != nil {
		verifyLogger.Warn("rejecting request", slog.Any("error", err))
		metrics.EventsProcessed.WithLabelValues(surface, string(OutcomeRejected)).Inc()
		return respond(http.StatusForbidden, ProcessingResult{
			Outcome: OutcomeRejected,
			Message: "signature verification failed",
		}), err
	}

	var event models.WebhookEvent
	if err := json.Unmarshal([]byte(req.Body), &event); err != nil {
		logger.Warn("malformed event payload", slog.Any("error", err))
		metrics.EventsProcessed.WithLabelValues(surface, string(OutcomeRejected)).Inc()
		return respond(http.StatusUnprocessableEntity, ProcessingResult{
			Outcome: OutcomeRejected,
			Message: "malformed event payload",
		}), errors.Wrap(err, "malformed event payload")
	}
	logger = logger.With(
		slog.String("event", event.Type),
		slog.String("resourceId", event.ResourceID))

	var response models.Response
	var err error
	switch req.Path {
	case "/event":
		response, err = h.processEvent(ctx, logger, &event)
	case "/canvas":
		response, err = h.processCanvas(ctx, logger, &event)
	case "/lifecycle":
		response, err = h.processLifecycle(logger, &event)
	default:
		response = respond(http.StatusNotFound, ProcessingResult{
			Outcome: OutcomeRejected,
			Message: "unknown path",
		})
	}

	outcome := OutcomeSuccess
	if response.StatusCode >= http.StatusBadRequest {
		outcome = OutcomeRejected
	}
	if response.StatusCode >= http.StatusInternalServerError {
		outcome = OutcomePartialFailure
	}
	metrics.EventsProcessed.WithLabelValues(surface, string(outcome)).Inc()
	return response, err
}

func (h *Handler) processEvent(ctx context.Context, logger *slog.Logger, event *models.WebhookEvent) (models.Response, error) {
	handled := false
	for _, t := range HandledEventTypes {
		if event.Type == t {
			handled = true
			break
		}
	}
	if !handled {
		logger.Info("ignoring unhandled event type")
		return respond(http.StatusUnprocessableEntity, ProcessingResult{
			Outcome: OutcomeRejected,
			Message: "unhandled event type: " + event.Type,
		}), nil
	}
	if event.ResourceID == "" {
		return respond(http.StatusUnprocessableEntity, ProcessingResult{
			Outcome: OutcomeRejected,
			Message: "missing resource id",
		}), errors.New("missing resource id")
	}
	return h.packageRecord(ctx, logger, event.ResourceID)
}

// packageRecord runs the fetch/assemble/render path shared by entry events
// and the canvas sync action.
func (h *Handler) packageRecord(ctx context.Context, logger *slog.Logger, recordID string) (models.Response, error) {
	fetchLogger := logger.With(slog.String("stage", string(StageFetching)))
	fetchLogger.Debug("fetching record...")

	record, err := h.notebook.GetEntry(ctx, recordID)
	if err != nil {
		return h.failure(fetchLogger, err)
	}
	refs, err := h.notebook.ListAttachments(ctx, recordID)
	if err != nil {
		return h.failure(fetchLogger, err)
	}
	record.Attachments = refs
	candidates := packaging.UniqueFilenames(refs)

	// a retried webhook for unchanged content finishes without re-uploading
	if existing := h.loadManifest(ctx, logger, recordID); existing != nil && existing.Matches(candidates) {
		logger.Info("package already current, skipping assembly",
			slog.String("stage", string(StageRendering)),
			slog.Int("files", len(candidates)))
		return respond(http.StatusOK, ProcessingResult{
			Outcome:            OutcomeSuccess,
			PackageRevisionURL: packaging.RevisionURL(h.catalogBaseURL, existing.PackageName),
			CanvasBlocks:       canvas.PackageView(existing, recordID, h.catalogBaseURL, h.canvasPageSize),
		}), nil
	}

	assembleLogger := logger.With(slog.String("stage", string(StageAssembling)))
	result, err := h.packager.Assemble(ctx, record)
	if err != nil {
		return h.failure(assembleLogger, err)
	}

	logger.Info("package assembled",
		slog.String("stage", string(StageDone)),
		slog.Int("files", len(result.Manifest.Files)))
	return respond(http.StatusCreated, ProcessingResult{
		Outcome:            OutcomeSuccess,
		PackageRevisionURL: result.RevisionURL,
		CanvasBlocks:       canvas.PackageView(result.Manifest, recordID, h.catalogBaseURL, h.canvasPageSize),
	}), nil
}

func (h *Handler) processCanvas(ctx context.Context, logger *slog.Logger, event *models.WebhookEvent) (models.Response, error) {
	browseLogger := logger.With(slog.String("stage", string(StageBrowsing)))

	interaction, err := canvas.ParseActionID(event.ButtonID)
	if err != nil {
		// unknown controls degrade to the default view of the current package
		browseLogger.Warn("unrecognized canvas action, rendering default view", slog.Any("error", err))
		return h.renderDefaultView(ctx, browseLogger, event.ResourceID)
	}

	switch interaction.Action {
	case canvas.ActionBrowseFiles:
		manifest := h.loadManifest(ctx, browseLogger, interaction.RecordID)
		if manifest == nil {
			return respond(http.StatusNotFound, ProcessingResult{
				Outcome: OutcomeRejected,
				Message: "no package exists for this entry yet",
			}), nil
		}
		return respond(http.StatusOK, ProcessingResult{
			Outcome:      OutcomeSuccess,
			CanvasBlocks: canvas.FileListView(manifest, interaction.RecordID, interaction.Page, interaction.PageSize),
		}), nil

	case canvas.ActionSync:
		return h.packageRecord(ctx, logger, interaction.RecordID)

	case canvas.ActionUpload:
		manifest := h.loadManifest(ctx, browseLogger, interaction.RecordID)
		if manifest == nil {
			// nothing packaged yet, an upload starts with a full assembly
			return h.packageRecord(ctx, logger, interaction.RecordID)
		}
		return respond(http.StatusOK, ProcessingResult{
			Outcome:            OutcomeSuccess,
			PackageRevisionURL: packaging.RevisionURL(h.catalogBaseURL, manifest.PackageName),
			CanvasBlocks:       canvas.PackageView(manifest, interaction.RecordID, h.catalogBaseURL, h.canvasPageSize),
		}), nil

	default:
		return h.renderDefaultView(ctx, browseLogger, event.ResourceID)
	}
}

func (h *Handler) processLifecycle(logger *slog.Logger, event *models.WebhookEvent) (models.Response, error) {
	logger = logger.With(slog.String("tenantId", event.TenantID))
	switch event.Type {
	case models.EventAppUninstalled:
		logger.Info("tenant detached")
		return respond(http.StatusOK, ProcessingResult{Outcome: OutcomeSuccess}), nil
	case models.EventAppInstalled, models.EventAppConfigUpdated:
		logger.Info("acknowledged lifecycle notification")
		return respond(http.StatusOK, ProcessingResult{Outcome: OutcomeSuccess}), nil
	default:
		logger.Info("ignoring unhandled lifecycle type")
		return respond(http.StatusUnprocessableEntity, ProcessingResult{
			Outcome: OutcomeRejected,
			Message: "unhandled lifecycle type: " + event.Type,
		}), nil
	}
}

// renderDefaultView shows the package view for a record using manifest data
// alone; no upstream calls are made.
func (h *Handler) renderDefaultView(ctx context.Context, logger *slog.Logger, recordID string) (models.Response, error) {
	if recordID == "" {
		return respond(http.StatusUnprocessableEntity, ProcessingResult{
			Outcome: OutcomeRejected,
			Message: "missing resource id",
		}), nil
	}
	manifest := h.loadManifest(ctx, logger, recordID)
	if manifest == nil {
		return respond(http.StatusOK, ProcessingResult{
			Outcome: OutcomeSuccess,
			Message: "no package exists for this entry yet",
		}), nil
	}
	return respond(http.StatusOK, ProcessingResult{
		Outcome:            OutcomeSuccess,
		PackageRevisionURL: packaging.RevisionURL(h.catalogBaseURL, manifest.PackageName),
		CanvasBlocks:       canvas.PackageView(manifest, recordID, h.catalogBaseURL, h.canvasPageSize),
	}), nil
}

// loadManifest fetches and decodes the committed manifest for a record.
// Absence and decode failures both read as "no package": assembly is cheap
// to repeat and uploads are idempotent.
func (h *Handler) loadManifest(ctx context.Context, logger *slog.Logger, recordID string) *packaging.Manifest {
	key := packaging.ManifestKey(packaging.PackageName(h.namespace, recordID))
	content, err := h.store.GetObject(ctx, key)
	if err != nil {
		logger.Debug("no manifest found", slog.String("key", key), slog.Any("error", err))
		return nil
	}
	manifest, err := packaging.DecodeManifest(content)
	if err != nil {
		logger.Warn("undecodable manifest, treating package as absent",
			slog.String("key", key), slog.Any("error", err))
		return nil
	}
	return manifest
}

// maxDetailLength bounds the error detail echoed back to the webhook sender.
const maxDetailLength = 512

func (h *Handler) failure(logger *slog.Logger, err error) (models.Response, error) {
	var partial *packaging.PartialError
	var exhausted *retry.ExhaustedError
	switch {
	case errors.As(err, &partial):
		logger.Error("assembly incomplete", slog.Any("error", err))
		return respond(http.StatusInternalServerError, ProcessingResult{
			Outcome: OutcomePartialFailure,
			Message: helpers.Truncate(err.Error(), maxDetailLength),
		}), err
	case errors.As(err, &exhausted):
		logger.Error("upstream unavailable", slog.Any("error", err))
		return respond(http.StatusServiceUnavailable, ProcessingResult{
			Outcome: OutcomePartialFailure,
			Message: "upstream unavailable, retry later",
		}), err
	case errors.Is(err, retry.ErrPermanent):
		logger.Error("upstream rejected request", slog.Any("error", err))
		return respond(http.StatusBadGateway, ProcessingResult{
			Outcome: OutcomeRejected,
			Message: "upstream rejected request",
		}), err
	default:
		logger.Error("processing failed", slog.Any("error", err))
		return respond(http.StatusInternalServerError, ProcessingResult{
			Outcome: OutcomePartialFailure,
			Message: helpers.Truncate(err.Error(), maxDetailLength),
		}), err
	}
}
