package canvas

import (
	"fmt"

	"github.com/elnpack/eln-packager-app/internal/packaging"
)

// PackageView renders the default view for an assembled package: a header
// leading with the display ID and an actions block. Labels describe the
// effect of each control, raw URLs are never shown.
func PackageView(manifest *packaging.Manifest, recordID, catalogBaseURL string, pageSize int) []Block {
	return []Block{
		{
			Type: BlockHeader,
			Text: fmt.Sprintf("%s (%d files packaged)", manifest.DisplayID, len(manifest.Files)),
		},
		{
			Type: BlockActions,
			Links: []Link{
				{
					Label: "Browse Package",
					URL:   packaging.BrowseURL(catalogBaseURL, manifest.PackageName),
				},
				{
					Label:    "Browse Files",
					ActionID: Interaction{Action: ActionBrowseFiles, RecordID: recordID, Page: 0, PageSize: pageSize}.ActionID(),
				},
				{
					Label:    "Sync",
					ActionID: Interaction{Action: ActionSync, RecordID: recordID, Page: 0, PageSize: pageSize}.ActionID(),
				},
				{
					Label:    "Upload",
					ActionID: Interaction{Action: ActionUpload, RecordID: recordID, Page: 0, PageSize: pageSize}.ActionID(),
				},
			},
		},
	}
}

// FileListView renders one page of a package's file list. Pagination state
// lives entirely in the previous/next control identifiers, so any later
// interaction resumes from the identifier alone.
func FileListView(manifest *packaging.Manifest, recordID string, page, pageSize int) []Block {
	order := manifest.FileOrder()
	if pageSize < 1 {
		pageSize = len(order)
	}
	lastPage := 0
	if len(order) > 0 {
		lastPage = (len(order) - 1) / pageSize
	}
	if page < 0 {
		page = 0
	}
	if page > lastPage {
		page = lastPage
	}

	start := page * pageSize
	end := min(start+pageSize, len(order))

	items := make([]string, 0, end-start)
	for _, name := range order[start:end] {
		entry := manifest.Files[name]
		items = append(items, fmt.Sprintf("%d. %s (%d bytes)", entry.Index+1, name, entry.Size))
	}

	header := fmt.Sprintf("%s: files %d-%d of %d", manifest.DisplayID, start+1, end, len(order))
	if len(order) == 0 {
		header = fmt.Sprintf("%s: no files packaged", manifest.DisplayID)
	}

	blocks := []Block{
		{
			Type: BlockHeader,
			Text: header,
		},
		{
			Type:  BlockList,
			Items: items,
		},
	}

	var controls []Link
	if page > 0 {
		controls = append(controls, Link{
			Label:    "Previous",
			ActionID: Interaction{Action: ActionBrowseFiles, RecordID: recordID, Page: page - 1, PageSize: pageSize}.ActionID(),
		})
	}
	if page < lastPage {
		controls = append(controls, Link{
			Label:    "Next",
			ActionID: Interaction{Action: ActionBrowseFiles, RecordID: recordID, Page: page + 1, PageSize: pageSize}.ActionID(),
		})
	}
	if len(controls) > 0 {
		blocks = append(blocks, Block{Type: BlockActions, Links: controls})
	}

	return blocks
}
