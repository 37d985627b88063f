package notebook_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/elnpack/eln-packager-app/internal/controllers/notebook"
	"github.com/elnpack/eln-packager-app/internal/models"
	"github.com/elnpack/eln-packager-app/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamStub serves a fake notebook API with configurable page failures.
type upstreamStub struct {
	mu            sync.Mutex
	attachments   int
	pageSize      int
	failuresLeft  map[int]int // page index -> remaining 503s
	listCalls     int
	entryCalls    int
	downloadCalls int
}

func (s *upstreamStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.entryCalls++
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":        r.PathValue("id"),
			"displayId": "EXP00000123",
			"name":      "CRISPR plate prep",
			"webURL":    "https://notebook.example.com/entries/" + r.PathValue("id"),
		})
	})
	mux.HandleFunc("GET /entries/{id}/attachments", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.listCalls++
		cursor, _ := strconv.Atoi(r.URL.Query().Get("cursor"))
		page := cursor / s.pageSize
		if s.failuresLeft[page] > 0 {
			s.failuresLeft[page]--
			s.mu.Unlock()
			http.Error(w, "upstream hiccup", http.StatusServiceUnavailable)
			return
		}
		s.mu.Unlock()

		var items []map[string]any
		next := ""
		for i := cursor; i < cursor+s.pageSize && i < s.attachments; i++ {
			items = append(items, map[string]any{
				"id":       fmt.Sprintf("att_%d", i),
				"filename": fmt.Sprintf("plate_%02d.csv", i),
				"size":     int64(100 + i),
			})
		}
		if cursor+s.pageSize < s.attachments {
			next = strconv.Itoa(cursor + s.pageSize)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"attachments": items, "nextCursor": next})
	})
	mux.HandleFunc("GET /attachments/{id}/content", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.downloadCalls++
		s.mu.Unlock()
		_, _ = w.Write([]byte("content of " + r.PathValue("id")))
	})
	return mux
}

func newController(t *testing.T, server *httptest.Server, pageSize int) *notebook.Controller {
	t.Helper()
	ctl, err := notebook.NewController(
		notebook.WithBaseURL(server.URL),
		notebook.WithPageSize(pageSize),
		notebook.WithHTTPClient(server.Client()),
		notebook.WithExecutor(retry.NewExecutor(
			retry.WithMaxAttempts(3),
			retry.WithBackoff(time.Millisecond, 2*time.Millisecond),
		)),
	)
	require.NoError(t, err)
	return ctl
}

func TestController_GetEntry(t *testing.T) {
	stub := &upstreamStub{pageSize: 15}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	record, err := newController(t, server, 15).GetEntry(t.Context(), "etr_1")
	require.NoError(t, err)
	assert.Equal(t, "etr_1", record.ID)
	assert.Equal(t, "EXP00000123", record.DisplayID)
	assert.Equal(t, "CRISPR plate prep", record.Name)
}

func TestController_ListAttachments_PaginationWithMidSequenceRetries(t *testing.T) {
	// 37 attachments across 3 pages; page 1 (the second page) fails twice
	// before succeeding.
	stub := &upstreamStub{
		attachments:  37,
		pageSize:     15,
		failuresLeft: map[int]int{1: 2},
	}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	refs, err := newController(t, server, 15).ListAttachments(t.Context(), "etr_1")
	require.NoError(t, err)
	require.Len(t, refs, 37)
	for i, ref := range refs {
		assert.Equal(t, fmt.Sprintf("att_%d", i), ref.ID, "attachment order must follow page-then-row order")
		assert.Equal(t, int64(100+i), ref.Size)
	}
	// 3 successful pages + 2 retried failures
	assert.Equal(t, 5, stub.listCalls)
}

func TestController_ListAttachments_AllOrNothing(t *testing.T) {
	stub := &upstreamStub{
		attachments:  37,
		pageSize:     15,
		failuresLeft: map[int]int{2: 10},
	}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	refs, err := newController(t, server, 15).ListAttachments(t.Context(), "etr_1")
	assert.Nil(t, refs, "no partial attachment list may be returned")

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Contains(t, err.Error(), "page 2")
}

func TestController_PermanentUpstreamRejection(t *testing.T) {
	calls := 0
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "no such entry", http.StatusNotFound)
	}))
	defer counting.Close()

	_, err := newController(t, counting, 15).GetEntry(t.Context(), "etr_missing")
	assert.ErrorIs(t, err, retry.ErrPermanent)
	assert.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestController_MalformedResponseIsPermanent(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	_, err := newController(t, server, 15).GetEntry(t.Context(), "etr_1")
	assert.ErrorIs(t, err, retry.ErrPermanent)
	assert.Equal(t, 1, calls)
}

func TestController_DownloadAttachment(t *testing.T) {
	stub := &upstreamStub{pageSize: 15}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	content, err := newController(t, server, 15).DownloadAttachment(t.Context(),
		models.AttachmentRef{ID: "att_7", Filename: "plate_07.csv", Size: 107})
	require.NoError(t, err)
	assert.Equal(t, "content of att_7", string(content))
}
