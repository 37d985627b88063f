// Package packaging assembles fetched notebook records into versioned,
// content-addressed data packages in object storage.
package packaging

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"github.com/elnpack/eln-packager-app/internal/models"
)

// MetadataVersion is the current manifest schema version. Consumers must
// check it before trusting the files shape: versionless manifests carry an
// ordered array, "2.0" manifests carry a dictionary with explicit indices.
const MetadataVersion = "2.0"

// ManifestFilename is the object name of the package manifest. Its presence
// is the commit marker for "package exists".
const ManifestFilename = "entry.json"

// SummaryFilename is the object name of the human-readable companion document.
const SummaryFilename = "README.md"

// FileEntry is the per-file manifest value. The filename lives in the
// enclosing dictionary key.
type FileEntry struct {
	Index int    `json:"index"`
	S3Key string `json:"s3_key"`
	Size  int64  `json:"size"`
}

// Manifest is the versioned description of a package's files, written to
// storage as entry.json. Immutable once written; a new webhook for the same
// record produces a new manifest revision, never a mutation.
type Manifest struct {
	MetadataVersion string               `json:"metadata_version"`
	PackageName     string               `json:"package_name"`
	DisplayID       string               `json:"display_id"`
	Files           map[string]FileEntry `json:"files"`
}

// legacyFile is the pre-2.0 manifest entry: an ordered array element with an
// inline filename and no explicit index.
type legacyFile struct {
	Filename string `json:"filename"`
	S3Key    string `json:"s3_key"`
	Size     int64  `json:"size"`
}

// NewManifest builds a 2.0 manifest from the given file records.
func NewManifest(packageName, displayID string, files []models.FileRecord) *Manifest {
	m := &Manifest{
		MetadataVersion: MetadataVersion,
		PackageName:     packageName,
		DisplayID:       displayID,
		Files:           make(map[string]FileEntry, len(files)),
	}
	for _, f := range files {
		m.Files[f.Filename] = FileEntry{Index: f.Index, S3Key: f.ObjectKey, Size: f.Size}
	}
	return m
}

// DecodeManifest parses a manifest of either schema generation. The
// metadata_version field acts as the variant discriminator: when absent, the
// files field is interpreted as the legacy ordered array.
func DecodeManifest(data []byte) (*Manifest, error) {
	var probe struct {
		MetadataVersion string `json:"metadata_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest")
	}

	switch probe.MetadataVersion {
	case MetadataVersion:
		var m Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, "failed to parse manifest")
		}
		if m.Files == nil {
			m.Files = map[string]FileEntry{}
		}
		return &m, nil
	case "":
		var legacy struct {
			PackageName string       `json:"package_name"`
			DisplayID   string       `json:"display_id"`
			Files       []legacyFile `json:"files"`
		}
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, errors.Wrap(err, "failed to parse legacy manifest")
		}
		m := &Manifest{
			PackageName: legacy.PackageName,
			DisplayID:   legacy.DisplayID,
			Files:       make(map[string]FileEntry, len(legacy.Files)),
		}
		for i, f := range legacy.Files {
			m.Files[f.Filename] = FileEntry{Index: i, S3Key: f.S3Key, Size: f.Size}
		}
		return m, nil
	default:
		return nil, errors.Errorf("unsupported manifest metadata_version: %s", probe.MetadataVersion)
	}
}

// Encode renders the manifest as JSON in the current schema version.
func (m *Manifest) Encode() ([]byte, error) {
	out := *m
	out.MetadataVersion = MetadataVersion
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode manifest")
	}
	return data, nil
}

// FileOrder returns the filenames sorted by their original attachment index.
func (m *Manifest) FileOrder() []string {
	names := make([]string, 0, len(m.Files))
	for name := range m.Files {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return m.Files[names[i]].Index < m.Files[names[j]].Index
	})
	return names
}

// Records reconstructs the ordered file records described by the manifest.
func (m *Manifest) Records() []models.FileRecord {
	names := m.FileOrder()
	records := make([]models.FileRecord, 0, len(names))
	for _, name := range names {
		entry := m.Files[name]
		records = append(records, models.FileRecord{
			Index:     entry.Index,
			Filename:  name,
			ObjectKey: entry.S3Key,
			Size:      entry.Size,
		})
	}
	return records
}

// Matches reports whether the manifest describes the same attachment set as
// the given candidates: identical unique filenames with identical sizes.
// Used for the idempotency short-circuit.
func (m *Manifest) Matches(candidates []models.AttachmentRef) bool {
	if len(m.Files) != len(candidates) {
		return false
	}
	for _, c := range candidates {
		entry, ok := m.Files[c.Filename]
		if !ok || entry.Size != c.Size {
			return false
		}
	}
	return true
}
