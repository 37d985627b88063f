package canvas

// BlockType discriminates the rendered block kinds understood by the
// notebook UI.
type BlockType string

const (
	BlockHeader  BlockType = "header"
	BlockActions BlockType = "actions"
	BlockList    BlockType = "list"
)

// Link is a labelled control inside a block. Exactly one of URL or ActionID
// is set: URL opens an external page, ActionID posts back a canvas
// interaction.
type Link struct {
	Label    string `json:"label"`
	URL      string `json:"url,omitempty"`
	ActionID string `json:"actionId,omitempty"`
}

// Block is one rendered UI element.
type Block struct {
	Type  BlockType `json:"type"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
	Links []Link    `json:"links,omitempty"`
}
