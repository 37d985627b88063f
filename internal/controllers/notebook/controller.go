// Package notebook provides a Controller for the upstream notebook API:
// entry metadata, cursor-paginated attachment listings and content downloads.
package notebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/elnpack/eln-packager-app/internal/helpers"
	"github.com/elnpack/eln-packager-app/internal/models"
	"github.com/elnpack/eln-packager-app/internal/retry"
)

// Controller encapsulates notebook API operations. Every call goes through
// the retry executor; pagination retries each page independently.
type Controller struct {
	ctx      context.Context
	logger   *slog.Logger
	baseURL  string
	pageSize int

	httpClient *http.Client
	creds      *clientcredentials.Config
	executor   *retry.Executor
}

// Option is a functional option used to configure or modify the properties of a Controller instance.
type Option func(*Controller)

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{pageSize: 50}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.baseURL == "" {
		return nil, errors.New("missing notebook API base URL")
	}
	_inst.baseURL = strings.TrimRight(_inst.baseURL, "/")
	if _inst.executor == nil {
		_inst.executor = retry.NewExecutor(retry.WithLogger(_inst.logger))
	}
	if _inst.httpClient == nil {
		if _inst.creds != nil {
			_inst.httpClient = _inst.creds.Client(_inst.ctx)
		} else {
			_inst.httpClient = http.DefaultClient
		}
	}
	return _inst, nil
}

// GetEntry fetches the record metadata once.
func (c *Controller) GetEntry(ctx context.Context, id string) (*models.Record, error) {
	var resource entryResource
	err := c.executor.Do(ctx, "get-entry", func(ctx context.Context) error {
		return c.getJSON(ctx, fmt.Sprintf("%s/entries/%s", c.baseURL, url.PathEscape(id)), &resource)
	})
	if err != nil {
		return nil, err
	}

	return &models.Record{
		ID:        resource.ID,
		DisplayID: resource.DisplayID,
		Name:      resource.Name,
		WebURL:    resource.WebURL,
		Fields:    resource.Fields,
	}, nil
}

// ListAttachments walks the attachment listing page by page until the cursor
// is empty. Accumulation is strict page-then-within-page order so the caller
// can assign contiguous indices. A page that exhausts its retries fails the
// whole listing; no partial result is returned.
func (c *Controller) ListAttachments(ctx context.Context, entryID string) ([]models.AttachmentRef, error) {
	var refs []models.AttachmentRef
	cursor := ""
	page := 0
	for {
		var result attachmentPage
		target := fmt.Sprintf("%s/entries/%s/attachments?pageSize=%s", c.baseURL, url.PathEscape(entryID), strconv.Itoa(c.pageSize))
		if cursor != "" {
			target += "&cursor=" + url.QueryEscape(cursor)
		}
		err := c.executor.Do(ctx, "list-attachments", func(ctx context.Context) error {
			result = attachmentPage{}
			return c.getJSON(ctx, target, &result)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "attachment listing failed on page %d", page)
		}

		for _, a := range result.Attachments {
			refs = append(refs, models.AttachmentRef{ID: a.ID, Filename: a.Filename, Size: a.Size})
		}
		c.logger.Debug("fetched attachment page",
			slog.String("entry", entryID),
			slog.Int("page", page),
			slog.Int("count", len(result.Attachments)))

		if result.NextCursor == "" {
			return refs, nil
		}
		cursor = result.NextCursor
		page++
	}
}

// DownloadAttachment retrieves the content bytes of a single attachment.
func (c *Controller) DownloadAttachment(ctx context.Context, ref models.AttachmentRef) ([]byte, error) {
	var content []byte
	err := c.executor.Do(ctx, "download-attachment", func(ctx context.Context) error {
		body, err := c.get(ctx, fmt.Sprintf("%s/attachments/%s/content", c.baseURL, url.PathEscape(ref.ID)))
		if err != nil {
			return err
		}
		content = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (c *Controller) getJSON(ctx context.Context, target string, out any) error {
	body, err := c.get(ctx, target)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, out); err != nil {
		// a malformed response will not get better on retry
		return retry.Permanent(errors.Wrap(err, "malformed upstream response"))
	}
	return nil
}

func (c *Controller) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// transport failures: timeouts, connection resets
		return nil, retry.Transient(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.Transient(err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, retry.ClassifyStatus(resp.StatusCode, fmt.Errorf("upstream returned %s", resp.Status))
	}
	return body, nil
}
