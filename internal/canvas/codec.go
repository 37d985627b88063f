// Package canvas renders the interactive UI block surface and encodes all
// interaction state inside element identifiers. There is no server-side
// session: every identifier is self-describing and can be replayed alone.
package canvas

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// Action names the effect a UI control triggers.
type Action string

const (
	ActionBrowseFiles Action = "browse-files"
	ActionSync        Action = "sync"
	ActionUpload      Action = "upload"
)

// ErrUnrecognizedAction marks an identifier that does not match the
// interaction grammar. Callers degrade to the default package view instead
// of failing the request.
var ErrUnrecognizedAction = errors.New("unrecognized canvas action")

// identifier grammar: {action}-{recordId}-p{page}-s{pageSize}
var actionIDPattern = regexp.MustCompile(`^(browse-files|sync|upload)-(.+)-p(\d+)-s(\d+)$`)

// Interaction is the decoded state of one UI control activation.
type Interaction struct {
	Action   Action
	RecordID string
	Page     int
	PageSize int
}

// ActionID encodes the interaction into a control identifier.
func (i Interaction) ActionID() string {
	return fmt.Sprintf("%s-%s-p%d-s%d", i.Action, i.RecordID, i.Page, i.PageSize)
}

// ParseActionID decodes a control identifier back into an Interaction.
// Anything outside the grammar yields ErrUnrecognizedAction, never a panic.
func ParseActionID(id string) (*Interaction, error) {
	match := actionIDPattern.FindStringSubmatch(id)
	if match == nil {
		return nil, errors.Wrapf(ErrUnrecognizedAction, "%q", id)
	}

	page, err := strconv.Atoi(match[3])
	if err != nil {
		return nil, errors.Wrapf(ErrUnrecognizedAction, "%q", id)
	}
	pageSize, err := strconv.Atoi(match[4])
	if err != nil || pageSize < 1 {
		return nil, errors.Wrapf(ErrUnrecognizedAction, "%q", id)
	}

	return &Interaction{
		Action:   Action(match[1]),
		RecordID: match[2],
		Page:     page,
		PageSize: pageSize,
	}, nil
}
