package packaging

import (
	"fmt"
	"path"
	"strings"

	"github.com/elnpack/eln-packager-app/internal/models"
)

// PackageName forms the package name from the namespace and record ID. The
// record ID is used rather than the display ID so canvas interactions can
// locate a package without an upstream round trip, and so renames never
// orphan a package.
func PackageName(namespace, recordID string) string {
	return fmt.Sprintf("%s/%s", strings.Trim(namespace, "/"), recordID)
}

// ManifestKey returns the object key of the package manifest.
func ManifestKey(packageName string) string {
	return path.Join(packageName, ManifestFilename)
}

// SummaryKey returns the object key of the package summary document.
func SummaryKey(packageName string) string {
	return path.Join(packageName, SummaryFilename)
}

// FileKey returns the object key for a packaged file, derived from the
// package name and filename.
func FileKey(packageName, filename string) string {
	return path.Join(packageName, "data", filename)
}

// RevisionURL returns the catalog URL used to request an additive revision
// to the package.
func RevisionURL(catalogBaseURL, packageName string) string {
	return fmt.Sprintf("%s/%s?action=revisePackage", strings.TrimRight(catalogBaseURL, "/"), packageName)
}

// BrowseURL returns the catalog URL for viewing the package.
func BrowseURL(catalogBaseURL, packageName string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(catalogBaseURL, "/"), packageName)
}

// UniqueFilenames returns the candidates with duplicate filenames
// de-duplicated deterministically, preserving order. Filenames double as
// manifest dictionary keys and must be unique within one package.
func UniqueFilenames(refs []models.AttachmentRef) []models.AttachmentRef {
	used := make(map[string]bool, len(refs))
	out := make([]models.AttachmentRef, 0, len(refs))
	for _, ref := range refs {
		name := ref.Filename
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		used[name] = true
		ref.Filename = name
		out = append(out, ref)
	}
	return out
}
