package packaging

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/elnpack/eln-packager-app/internal/helpers"
	"github.com/elnpack/eln-packager-app/internal/metrics"
	"github.com/elnpack/eln-packager-app/internal/models"
)

// ObjectStore is the subset of the storage controller the assembler writes
// through. The assembler exclusively owns object-storage writes.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
}

// ContentSource provides attachment content, typically the notebook
// controller behind the retry executor.
type ContentSource interface {
	DownloadAttachment(ctx context.Context, ref models.AttachmentRef) ([]byte, error)
}

// Result describes a completed assembly.
type Result struct {
	Manifest    *Manifest
	RevisionURL string
}

// Option is a functional option used to configure an Assembler instance.
type Option func(*Assembler)

// WithLogger sets the logger instance for the assembler.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithPoolSize sets the fixed number of concurrent file transfers.
func WithPoolSize(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.poolSize = n
		}
	}
}

// Assembler turns a fetched record and its ordered attachment candidates
// into an uploaded, manifested package.
type Assembler struct {
	logger         *slog.Logger
	store          ObjectStore
	source         ContentSource
	namespace      string
	catalogBaseURL string
	poolSize       int
}

// NewAssembler initializes an Assembler writing through the given store and
// reading content from the given source.
func NewAssembler(store ObjectStore, source ContentSource, namespace, catalogBaseURL string, opts ...Option) *Assembler {
	_inst := &Assembler{
		store:          store,
		source:         source,
		namespace:      namespace,
		catalogBaseURL: catalogBaseURL,
		poolSize:       4,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// Assemble downloads every candidate, uploads it under the package prefix,
// and writes the summary and manifest only after all file transfers have
// settled. The manifest is the commit marker: a crash mid-upload never
// leaves a manifest pointing at missing objects.
//
// Cancellation of ctx stops new downloads from being dispatched; transfers
// already in flight run to completion on a detached context so no partial
// object is orphaned mid-write.
func (a *Assembler) Assemble(ctx context.Context, record *models.Record) (*Result, error) {
	packageName := PackageName(a.namespace, record.ID)
	candidates := UniqueFilenames(record.Attachments)
	logger := a.logger.With(slog.String("package", packageName))

	files := make([]*models.FileRecord, len(candidates))
	var completed atomic.Int64

	// transfers already dispatched survive client disconnects
	detached := context.WithoutCancel(ctx)

	group := &errgroup.Group{}
	group.SetLimit(a.poolSize)
	for i, ref := range candidates {
		if err := ctx.Err(); err != nil {
			// no new downloads once the request is gone
			break
		}
		group.Go(func() error {
			content, err := a.source.DownloadAttachment(detached, ref)
			if err != nil {
				return errors.Wrapf(err, "failed to download %s", ref.Filename)
			}
			key := FileKey(packageName, ref.Filename)
			if err = a.store.PutObject(detached, key, "application/octet-stream", content); err != nil {
				return errors.Wrapf(err, "failed to upload %s", ref.Filename)
			}
			// the manifest records the listing's reported size so a replayed
			// webhook for unchanged content compares equal against a fresh listing
			files[i] = &models.FileRecord{
				Index:     i,
				Filename:  ref.Filename,
				ObjectKey: key,
				Size:      ref.Size,
			}
			completed.Add(1)
			metrics.ObjectsUploaded.Inc()
			metrics.BytesUploaded.Add(float64(len(content)))
			return nil
		})
	}

	// manifest assembly waits for ALL transfers in this attempt to settle
	transferErr := group.Wait()
	if transferErr == nil && ctx.Err() != nil {
		transferErr = ctx.Err()
	}
	if transferErr != nil {
		return nil, &PartialError{
			PackageName: packageName,
			Completed:   int(completed.Load()),
			Total:       len(candidates),
			Cause:       transferErr,
		}
	}

	records := make([]models.FileRecord, len(files))
	for i, f := range files {
		records[i] = *f
	}

	summary := RenderSummary(record, packageName, a.catalogBaseURL, records)
	if err := a.store.PutObject(detached, SummaryKey(packageName), "text/markdown", []byte(summary)); err != nil {
		return nil, &PartialError{
			PackageName: packageName,
			Completed:   len(records),
			Total:       len(candidates),
			Cause:       errors.Wrap(err, "failed to upload summary"),
		}
	}

	manifest := NewManifest(packageName, record.DisplayID, records)
	encoded, err := manifest.Encode()
	if err != nil {
		return nil, err
	}
	if err = a.store.PutObject(detached, ManifestKey(packageName), "application/json", encoded); err != nil {
		return nil, &PartialError{
			PackageName: packageName,
			Completed:   len(records),
			Total:       len(candidates),
			Cause:       errors.Wrap(err, "failed to upload manifest"),
		}
	}

	logger.Info("package assembled",
		slog.Int("files", len(records)),
		slog.String("displayId", record.DisplayID))

	return &Result{
		Manifest:    manifest,
		RevisionURL: RevisionURL(a.catalogBaseURL, packageName),
	}, nil
}
