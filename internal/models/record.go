package models

// Record is the notebook entry being packaged. It is fetched fresh per event
// and never cached across requests.
type Record struct {
	ID          string
	DisplayID   string
	Name        string
	WebURL      string
	Fields      map[string]string
	Attachments []AttachmentRef
}

// AttachmentRef identifies one attachment of a record as reported by the
// upstream listing. Order within the slice is the original attachment order.
type AttachmentRef struct {
	ID       string
	Filename string
	Size     int64
}

// FileRecord describes one packaged file. Index is the zero-based position in
// the original attachment ordering; Filename is unique within one package and
// doubles as the manifest dictionary key.
type FileRecord struct {
	Index     int
	Filename  string
	ObjectKey string
	Size      int64
}
