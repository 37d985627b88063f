package canvas_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elnpack/eln-packager-app/internal/canvas"
	"github.com/elnpack/eln-packager-app/internal/models"
	"github.com/elnpack/eln-packager-app/internal/packaging"
)

func manifestWithFiles(n int) *packaging.Manifest {
	files := make([]models.FileRecord, n)
	for i := range files {
		files[i] = models.FileRecord{
			Index:     i,
			Filename:  fmt.Sprintf("file_%02d.dat", i),
			ObjectKey: fmt.Sprintf("notebook/etr_1/data/file_%02d.dat", i),
			Size:      int64(100 + i),
		}
	}
	return packaging.NewManifest("notebook/etr_1", "EXP00000123", files)
}

func TestPackageView(t *testing.T) {
	blocks := canvas.PackageView(manifestWithFiles(3), "etr_1", "https://catalog.example.com", 15)
	require.Len(t, blocks, 2)

	assert.Equal(t, canvas.BlockHeader, blocks[0].Type)
	assert.Contains(t, blocks[0].Text, "EXP00000123")
	assert.Contains(t, blocks[0].Text, "3 files")

	require.Equal(t, canvas.BlockActions, blocks[1].Type)
	labels := make(map[string]canvas.Link, len(blocks[1].Links))
	for _, link := range blocks[1].Links {
		labels[link.Label] = link
	}
	assert.Equal(t, "https://catalog.example.com/notebook/etr_1", labels["Browse Package"].URL)
	assert.Equal(t, "browse-files-etr_1-p0-s15", labels["Browse Files"].ActionID)
	assert.Equal(t, "sync-etr_1-p0-s15", labels["Sync"].ActionID)
	assert.Equal(t, "upload-etr_1-p0-s15", labels["Upload"].ActionID)
}

func TestFileListView_MiddlePage(t *testing.T) {
	blocks := canvas.FileListView(manifestWithFiles(37), "etr_1", 1, 15)
	require.Len(t, blocks, 3)

	assert.Contains(t, blocks[0].Text, "files 16-30 of 37")
	require.Len(t, blocks[1].Items, 15)
	assert.Equal(t, "16. file_15.dat (115 bytes)", blocks[1].Items[0])
	assert.Equal(t, "30. file_29.dat (129 bytes)", blocks[1].Items[14])

	require.Len(t, blocks[2].Links, 2)
	assert.Equal(t, "browse-files-etr_1-p0-s15", blocks[2].Links[0].ActionID)
	assert.Equal(t, "browse-files-etr_1-p2-s15", blocks[2].Links[1].ActionID)
}

func TestFileListView_FirstAndLastPages(t *testing.T) {
	first := canvas.FileListView(manifestWithFiles(37), "etr_1", 0, 15)
	require.Len(t, first, 3)
	require.Len(t, first[2].Links, 1)
	assert.Equal(t, "Next", first[2].Links[0].Label)

	last := canvas.FileListView(manifestWithFiles(37), "etr_1", 2, 15)
	require.Len(t, last, 3)
	assert.Len(t, last[1].Items, 7)
	require.Len(t, last[2].Links, 1)
	assert.Equal(t, "Previous", last[2].Links[0].Label)
}

func TestFileListView_PageClamping(t *testing.T) {
	// out-of-range page requests clamp instead of failing
	beyond := canvas.FileListView(manifestWithFiles(20), "etr_1", 99, 15)
	assert.Contains(t, beyond[0].Text, "files 16-20 of 20")

	negative := canvas.FileListView(manifestWithFiles(20), "etr_1", -3, 15)
	assert.Contains(t, negative[0].Text, "files 1-15 of 20")
}

func TestFileListView_SinglePageHasNoControls(t *testing.T) {
	blocks := canvas.FileListView(manifestWithFiles(5), "etr_1", 0, 15)
	require.Len(t, blocks, 2)
	assert.Len(t, blocks[1].Items, 5)
}

func TestFileListView_EmptyPackage(t *testing.T) {
	blocks := canvas.FileListView(manifestWithFiles(0), "etr_1", 0, 15)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0].Text, "no files")
	assert.Empty(t, blocks[1].Items)
}
