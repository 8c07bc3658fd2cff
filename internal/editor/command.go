package editor

import (
	"encoding/json"
	"fmt"

	"resume-builder/internal/model"
)

// Command is a mutation that can be dispatched to a session.
type Command interface {
	Apply(e *Editor, doc *model.Document) (*model.Document, error)
	Name() string
}

type InsertNodeCmd struct {
	Range    Range
	Template model.Node
}

func (c InsertNodeCmd) Name() string { return "insertNode" }
func (c InsertNodeCmd) Apply(e *Editor, doc *model.Document) (*model.Document, error) {
	return e.InsertNode(doc, c.Range, c.Template)
}

type InsertBlockCmd struct {
	Slot     Slot
	Template model.Node
}

func (c InsertBlockCmd) Name() string { return "insertBlock" }
func (c InsertBlockCmd) Apply(e *Editor, doc *model.Document) (*model.Document, error) {
	return e.InsertBlock(doc, c.Slot, c.Template)
}

type ToggleMarkCmd struct {
	Range Range
	Mark  model.Mark
}

func (c ToggleMarkCmd) Name() string { return "toggleMark" }
func (c ToggleMarkCmd) Apply(e *Editor, doc *model.Document) (*model.Document, error) {
	return e.ToggleMark(doc, c.Range, c.Mark)
}

type SetNodeAttrsCmd struct {
	Path  Path
	Attrs map[string]any
}

func (c SetNodeAttrsCmd) Name() string { return "setNodeAttrs" }
func (c SetNodeAttrsCmd) Apply(e *Editor, doc *model.Document) (*model.Document, error) {
	return e.SetNodeAttrs(doc, c.Path, c.Attrs)
}

type ReplaceRangeCmd struct {
	Range   Range
	Content []model.Node
}

func (c ReplaceRangeCmd) Name() string {
	if len(c.Content) == 0 {
		return "deleteRange"
	}
	return "replaceRange"
}
func (c ReplaceRangeCmd) Apply(e *Editor, doc *model.Document) (*model.Document, error) {
	return e.ReplaceRange(doc, c.Range, c.Content)
}

type ReplaceContentCmd struct {
	Path    Path
	Content []model.Node
}

func (c ReplaceContentCmd) Name() string { return "replaceContent" }
func (c ReplaceContentCmd) Apply(e *Editor, doc *model.Document) (*model.Document, error) {
	return e.ReplaceContent(doc, c.Path, c.Content)
}

// SlashCmd inserts the template of a palette command by id.
type SlashCmd struct {
	Range   Range
	Command string
	Attrs   map[string]any
}

func (c SlashCmd) Name() string { return "slash" }
func (c SlashCmd) Apply(e *Editor, doc *model.Document) (*model.Document, error) {
	sc, ok := FindCommand(DefaultCommands(), c.Command)
	if !ok {
		return nil, fmt.Errorf("%w: slash command %q", ErrUnknownType, c.Command)
	}
	tmpl, err := sc.Template(e.schema, c.Attrs)
	if err != nil {
		return nil, err
	}
	return e.InsertNode(doc, c.Range, tmpl)
}

// CommandRequest is the wire form of a command.
type CommandRequest struct {
	Op      string         `json:"op"`
	Range   *Range         `json:"range,omitempty"`
	Slot    *Slot          `json:"slot,omitempty"`
	Path    Path           `json:"path,omitempty"`
	Node    *model.Node    `json:"node,omitempty"`
	Mark    *model.Mark    `json:"mark,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []model.Node   `json:"content,omitempty"`
	Command string         `json:"command,omitempty"`
}

// DecodeCommand parses a JSON command request.
func DecodeCommand(raw []byte) (Command, error) {
	var req CommandRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decoding command: %w", err)
	}
	return req.ToCommand()
}

// ToCommand converts the request into a dispatchable command.
func (r CommandRequest) ToCommand() (Command, error) {
	needRange := func() (Range, error) {
		if r.Range == nil {
			return Range{}, fmt.Errorf("%w: %s requires a range", ErrInvalidRange, r.Op)
		}
		return *r.Range, nil
	}
	switch r.Op {
	case "insertNode":
		rng, err := needRange()
		if err != nil {
			return nil, err
		}
		if r.Node == nil {
			return nil, fmt.Errorf("%w: insertNode requires a node", ErrUnknownType)
		}
		return InsertNodeCmd{Range: rng, Template: *r.Node}, nil
	case "insertBlock":
		if r.Slot == nil || r.Node == nil {
			return nil, fmt.Errorf("%w: insertBlock requires a slot and a node", ErrInvalidPath)
		}
		return InsertBlockCmd{Slot: *r.Slot, Template: *r.Node}, nil
	case "toggleMark":
		rng, err := needRange()
		if err != nil {
			return nil, err
		}
		if r.Mark == nil {
			return nil, fmt.Errorf("%w: toggleMark requires a mark", ErrUnknownType)
		}
		return ToggleMarkCmd{Range: rng, Mark: *r.Mark}, nil
	case "setNodeAttrs":
		if len(r.Path) == 0 {
			return nil, fmt.Errorf("%w: setNodeAttrs requires a path", ErrInvalidPath)
		}
		return SetNodeAttrsCmd{Path: r.Path, Attrs: r.Attrs}, nil
	case "deleteRange":
		rng, err := needRange()
		if err != nil {
			return nil, err
		}
		return ReplaceRangeCmd{Range: rng}, nil
	case "replaceRange":
		rng, err := needRange()
		if err != nil {
			return nil, err
		}
		return ReplaceRangeCmd{Range: rng, Content: r.Content}, nil
	case "replaceContent":
		if len(r.Path) == 0 {
			return nil, fmt.Errorf("%w: replaceContent requires a path", ErrInvalidPath)
		}
		return ReplaceContentCmd{Path: r.Path, Content: r.Content}, nil
	case "slash":
		rng, err := needRange()
		if err != nil {
			return nil, err
		}
		return SlashCmd{Range: rng, Command: r.Command, Attrs: r.Attrs}, nil
	default:
		return nil, fmt.Errorf("%w: command op %q", ErrUnknownType, r.Op)
	}
}
