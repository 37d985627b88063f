package packaging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elnpack/eln-packager-app/internal/models"
)

// RenderSummary produces the human-readable companion document for a
// package. The title leads with the display ID; the record name is only a
// secondary qualifier. External references are always rendered as labelled
// markdown links, never bare URLs.
func RenderSummary(record *models.Record, packageName, catalogBaseURL string, files []models.FileRecord) string {
	var b strings.Builder

	title := record.DisplayID
	if record.Name != "" {
		title = fmt.Sprintf("%s: %s", record.DisplayID, record.Name)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if record.WebURL != "" {
		fmt.Fprintf(&b, "[Open entry in notebook](%s)\n\n", record.WebURL)
	}
	fmt.Fprintf(&b, "[Browse package in catalog](%s)\n\n", BrowseURL(catalogBaseURL, packageName))

	if len(record.Fields) > 0 {
		b.WriteString("## Fields\n\n")
		b.WriteString("| Field | Value |\n|---|---|\n")
		for _, key := range sortedKeys(record.Fields) {
			fmt.Fprintf(&b, "| %s | %s |\n", key, record.Fields[key])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Files (%d)\n\n", len(files))
	for _, f := range files {
		fmt.Fprintf(&b, "%d. `%s` (%d bytes)\n", f.Index+1, f.Filename, f.Size)
	}

	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
