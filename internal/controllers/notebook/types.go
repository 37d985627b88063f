package notebook

// Wire representations of the notebook API resources.

type entryResource struct {
	ID        string            `json:"id"`
	DisplayID string            `json:"displayId"`
	Name      string            `json:"name"`
	WebURL    string            `json:"webURL"`
	Fields    map[string]string `json:"fields,omitempty"`
}

type attachmentResource struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type attachmentPage struct {
	Attachments []attachmentResource `json:"attachments"`
	NextCursor  string               `json:"nextCursor,omitempty"`
}
