package packaging

import "fmt"

// PartialError reports an assembly attempt in which some but not all steps
// succeeded. Already-uploaded objects are kept (uploads are idempotent to
// repeat) and the manifest is withheld, so retrying the whole webhook is safe.
type PartialError struct {
	PackageName string
	Completed   int
	Total       int
	Cause       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("package %s assembly incomplete (%d/%d files uploaded): %v",
		e.PackageName, e.Completed, e.Total, e.Cause)
}

func (e *PartialError) Unwrap() error {
	return e.Cause
}
